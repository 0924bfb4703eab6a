// internal/form/definition.go
//
// Forms subsystem: YAML definition loader.
//
// Context
//   A page document's `form` element either lists its fields inline or
//   references a shared definition by `formId`.  Shared definitions live
//   as YAML files under `forms.dir`; at startup every "*.yaml" / "*.yml"
//   there is parsed into a Def and stored in a Registry.  The document
//   renderer looks forms up by ID, so one definition can back many pages.
//
// Workflow
//   •  Structs mirror the YAML schema: Def → Step → Field.
//   •  LoadDef parses a single YAML file and validates structural rules.
//   •  Registry.LoadDir walks a directory and registers every definition;
//      later files with the same ID override earlier ones.
//   •  Validate runs the same structural rules on inline definitions.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// Def represents one form definition.
//
// A form is defined EITHER by a flat Fields list OR by a Steps list
// (multi-step wizard).  Action and Method are copied onto the <form>
// element; submission handling belongs to the live application.
type Def struct {
	ID     string  `yaml:"id"`     // Unique identifier, e.g. "newsletter".
	Title  string  `yaml:"title"`  // Display title, optional.
	Action string  `yaml:"action"` // Submit URL, optional.
	Method string  `yaml:"method"` // get or post; default post.
	Submit string  `yaml:"submit"` // Submit button label; default "Submit".
	Fields []Field `yaml:"fields"` // Flat list of fields (single-step).
	Steps  []Step  `yaml:"steps"`  // Multi-step definition.  Mutually exclusive with Fields.
}

// Field describes a single input control on the form.
type Field struct {
	Name        string   `yaml:"name"`        // Submission key.  Required.
	Label       string   `yaml:"label"`       // Human-readable label.  Required.
	Type        string   `yaml:"type"`        // text, email, number, select, checkbox, etc.
	Placeholder string   `yaml:"placeholder"` // Optional placeholder text.
	Required    bool     `yaml:"required"`    // True if input is mandatory.
	MinLength   int      `yaml:"minlength"`   // ≥ 0, 0 means unset.
	MaxLength   int      `yaml:"maxlength"`   // ≥ 0, 0 means unset.
	Pattern     string   `yaml:"pattern"`     // Regex pattern string.
	Options     []string `yaml:"options"`     // For select/radio.  Optional.
}

// Step groups fields into a wizard step.  Static output renders the first.
type Step struct {
	ID     string  `yaml:"id"`    // Unique per form.  If blank, we derive one.
	Title  string  `yaml:"title"` // Display heading, optional.
	Fields []Field `yaml:"fields"`
}

// fieldTypes lists the types writeField can render.
var fieldTypes = map[string]bool{
	"text": true, "email": true, "password": true, "number": true, "date": true,
	"tel": true, "url": true, "hidden": true,
	"textarea": true, "select": true, "checkbox": true, "radio": true,
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Registry maps form ID → *Def.  It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Def
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Get returns a parsed Def by ID.  The boolean is false when the ID is
// unknown or r is nil.
func (r *Registry) Get(id string) (*Def, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fd, ok := r.defs[id]
	return fd, ok
}

// Register inserts or overrides a definition after validating it.
func (r *Registry) Register(fd *Def) error {
	if err := Validate(fd, "<inline>"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[fd.ID] = fd
	return nil
}

// Len reports the number of registered forms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadDef parses one YAML file, validates its structure, and returns a
// populated Def.  It never touches a Registry.
func LoadDef(path string) (*Def, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", path, err)
	}

	var fd Def
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", path, err)
	}

	if err := Validate(&fd, path); err != nil {
		return nil, err
	}
	return &fd, nil
}

// LoadDir walks dir and registers every "*.yaml" / "*.yml" in lexical
// order.  A missing dir is not an error.
func (r *Registry) LoadDir(dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(d.Name()); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	sort.Strings(paths)

	for _, p := range paths {
		fd, err := LoadDef(p)
		if err != nil {
			return err // fail fast so issues surface loudly.
		}
		r.mu.Lock()
		r.defs[fd.ID] = fd
		r.mu.Unlock()
	}
	return nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// Validate enforces structural rules that cannot be expressed via YAML
// tags alone.  It returns a descriptive error referencing src.
func Validate(fd *Def, src string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", src)
	}

	// Either flat fields OR steps, not both.
	if len(fd.Fields) > 0 && len(fd.Steps) > 0 {
		return fmt.Errorf("form definition %s: cannot have both 'fields' and 'steps'", src)
	}
	if len(fd.Fields) == 0 && len(fd.Steps) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields' or 'steps'", src)
	}
	if m := strings.ToLower(fd.Method); m != "" && m != "get" && m != "post" {
		return fmt.Errorf("form definition %s: method must be get or post", src)
	}

	fieldNames := make(map[string]struct{})
	check := func(f *Field, where string) error {
		if err := validateField(f, src); err != nil {
			return err
		}
		if _, dup := fieldNames[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'%s", src, f.Name, where)
		}
		fieldNames[f.Name] = struct{}{}
		return nil
	}

	for i := range fd.Fields {
		if err := check(&fd.Fields[i], ""); err != nil {
			return err
		}
	}
	for si := range fd.Steps {
		s := &fd.Steps[si]
		if s.ID == "" {
			s.ID = fmt.Sprintf("step%d", si+1)
		}
		for fi := range s.Fields {
			if err := check(&s.Fields[fi], " across steps"); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *Field, src string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", src)
	}
	if f.Label == "" && f.Type != "hidden" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", src, f.Name)
	}
	if !fieldTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", src, f.Name, f.Type)
	}

	if f.Pattern != "" {
		if _, err := regexp.Compile(f.Pattern); err != nil {
			return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", src, f.Name, err)
		}
	}

	if f.MinLength < 0 || f.MaxLength < 0 {
		return fmt.Errorf("form %s: field '%s' minlength/maxlength cannot be negative", src, f.Name)
	}
	if f.MaxLength > 0 && f.MinLength > f.MaxLength {
		return fmt.Errorf("form %s: field '%s' minlength greater than maxlength", src, f.Name)
	}
	return nil
}
