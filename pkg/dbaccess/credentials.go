package dbaccess

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrCredentialsNotFound marks a missing credentials file. This is an
// expected, recoverable outcome: the resolver falls back to the local
// backend when it sees it.
var ErrCredentialsNotFound = errors.New("credentials file not found")

var validate = validator.New()

// Credentials holds the login material for the MySQL backend. The file
// that supplies them is owned by the operator; voltcalc only reads it and
// never persists its contents.
type Credentials struct {
	Login    string `yaml:"login" validate:"required"`
	Password string `yaml:"password" validate:"required"`
	DBName   string `yaml:"db_name" validate:"required"`
}

// credentialsDocument is the on-disk shape: a document with a nested
// credentials object. YAML is a superset of JSON, so both serializations
// of the artifact parse here.
type credentialsDocument struct {
	Credentials Credentials `yaml:"credentials"`
}

// LoadCredentials reads and validates the credentials file. A missing
// file returns ErrCredentialsNotFound; malformed or incomplete documents
// are errors.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, fmt.Errorf("%w: %s", ErrCredentialsNotFound, path)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials file %s: %w", path, err)
	}

	var doc credentialsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials file %s: %w", path, err)
	}
	if err := validate.Struct(doc.Credentials); err != nil {
		return Credentials{}, fmt.Errorf("invalid credentials file %s: %w", path, err)
	}
	return doc.Credentials, nil
}
