package params

import (
	"fmt"
	"os"
	"strings"

	"github.com/voltcalc/voltcalc/pkg/telemetry"
	"github.com/voltcalc/voltcalc/pkg/typeconv"
)

// separator divides a parameter name from its value on a line.
const separator = " = "

// Config holds parameter store configuration.
type Config struct {
	// Path is the configuration file. The file must exist; its absence
	// is a fatal configuration error, not something the store recovers.
	Path string

	// Logger receives change notifications. Optional.
	Logger *telemetry.Logger

	// Metrics counts reads and writes. Optional.
	Metrics *telemetry.Metrics
}

// Store reads and rewrites single parameters in the flat configuration
// file. Unrelated lines, their ordering, and trailing content are
// preserved byte for byte.
type Store struct {
	path    string
	codec   *typeconv.Codec
	log     *telemetry.Logger
	metrics *telemetry.Metrics
}

// New creates a parameter store bound to one configuration file.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}
	log := cfg.Logger
	if log == nil {
		log = telemetry.Nop()
	}
	return &Store{
		path:    cfg.Path,
		codec:   typeconv.NewCodec(log),
		log:     log.NewComponentLogger("params"),
		metrics: cfg.Metrics,
	}, nil
}

// line is one physical line of the configuration file. Lines that do not
// match the parameter grammar are carried through verbatim.
type line struct {
	raw     string
	name    string
	value   string
	isParam bool
}

// Get returns the typed value of a parameter. An unknown parameter name
// returns the absent value, not an error. A missing configuration file is
// an error and propagates to the caller.
func (s *Store) Get(name string) (typeconv.Value, error) {
	lines, err := s.load()
	if err != nil {
		return typeconv.Absent(), err
	}
	s.metrics.IncParamRead(name)

	for _, ln := range lines {
		if ln.isParam && ln.name == name {
			return s.codec.Decode(ln.value)
		}
	}
	return typeconv.Absent(), nil
}

// Set replaces the value of an existing parameter. Setting a name that is
// not declared in the file is a no-op: parameters are pre-declared and
// never created here. Text values are written quoted, decimals as their
// Decimal('...') literal, everything else in plain literal form.
func (s *Store) Set(name string, value typeconv.Value) error {
	lines, err := s.load()
	if err != nil {
		return err
	}

	idx := -1
	for i, ln := range lines {
		if ln.isParam && ln.name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.log.Debugf("parameter %s is not declared, ignoring set", name)
		return nil
	}

	rendered, err := s.render(value)
	if err != nil {
		return err
	}

	oldValue := lines[idx].value
	lines[idx].raw = name + separator + rendered
	lines[idx].value = rendered

	if err := s.save(lines); err != nil {
		return err
	}

	s.metrics.IncParamWrite(name)
	s.log.Warnf("config params changed: %s = %s (was %s)", name, rendered, oldValue)
	return nil
}

// render applies the persistence policy for a typed value.
func (s *Store) render(value typeconv.Value) (string, error) {
	switch value.Kind() {
	case typeconv.KindString:
		quoted, err := s.codec.Encode(value, typeconv.Options{Quote: true})
		if err != nil {
			return "", err
		}
		return quoted.Text(), nil
	case typeconv.KindDecimal:
		text, err := s.codec.Encode(value, typeconv.Options{AsString: true})
		if err != nil {
			return "", err
		}
		return text.Text(), nil
	default:
		return value.String(), nil
	}
}

// load reads the whole file into an ordered line list.
func (s *Store) load() ([]line, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file %s: %w", s.path, err)
	}

	raws := strings.Split(string(data), "\n")
	lines := make([]line, len(raws))
	for i, raw := range raws {
		lines[i] = line{raw: raw}
		if idx := strings.Index(raw, separator); idx > 0 && idx+len(separator) < len(raw) {
			lines[i].name = raw[:idx]
			lines[i].value = raw[idx+len(separator):]
			lines[i].isParam = true
		}
	}
	return lines, nil
}

// save serializes the line list back, rewriting the file as a whole.
func (s *Store) save(lines []line) error {
	raws := make([]string, len(lines))
	for i, ln := range lines {
		raws[i] = ln.raw
	}
	if err := os.WriteFile(s.path, []byte(strings.Join(raws, "\n")), 0644); err != nil {
		return fmt.Errorf("write configuration file %s: %w", s.path, err)
	}
	return nil
}
