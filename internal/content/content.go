// Package content is the read-only data behind every view: hero text,
// profile facts, certifications, skills, projects and contact details.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks content that breaks the provider contract.
var ErrInvalid = errors.New("content: invalid site data")

//go:embed site.yaml
var defaultSite []byte

type Site struct {
	Hero           Hero            `yaml:"hero" validate:"required"`
	Profile        Profile         `yaml:"profile" validate:"required"`
	Education      []Education     `yaml:"education" validate:"dive"`
	Certifications []Certification `yaml:"certifications" validate:"dive"`
	Expertise      []SkillGroup    `yaml:"expertise" validate:"dive"`
	SkillGroups    []SkillGroup    `yaml:"skill_groups" validate:"dive"`
	SoftSkills     []string        `yaml:"soft_skills" validate:"dive,required"`
	Projects       []Project       `yaml:"projects" validate:"dive"`
	MoreProjects   string          `yaml:"more_projects" validate:"omitempty,url"`
	Contact        Contact         `yaml:"contact" validate:"required"`
}

type Hero struct {
	Name         string   `yaml:"name" validate:"required"`
	Availability string   `yaml:"availability"`
	Phrases      []string `yaml:"phrases" validate:"min=1,dive,required"`
	Tagline      string   `yaml:"tagline"`
	Stats        []Stat   `yaml:"stats" validate:"dive"`
}

// Stat is a headline figure. Numeric values are animated as counters;
// anything else (a letter grade, say) is shown as-is.
type Stat struct {
	Value string `yaml:"value" validate:"required"`
	Label string `yaml:"label" validate:"required"`
}

type Profile struct {
	Name        string   `yaml:"name" validate:"required"`
	Role        string   `yaml:"role" validate:"required"`
	Affiliation string   `yaml:"affiliation"`
	Photo       string   `yaml:"photo"`
	Bio         string   `yaml:"bio"` // Markdown
	Tags        []string `yaml:"tags"`
	Facts       []Fact   `yaml:"facts" validate:"dive"`
}

type Fact struct {
	Icon  string `yaml:"icon"`
	Label string `yaml:"label" validate:"required"`
	Value string `yaml:"value" validate:"required"`
}

type Education struct {
	School string   `yaml:"school" validate:"required"`
	Field  string   `yaml:"field"`
	Years  string   `yaml:"years" validate:"required"`
	Honors []string `yaml:"honors"`
}

type Certification struct {
	Name string `yaml:"name" validate:"required"`
	Year int    `yaml:"year" validate:"required,gt=1900"`
}

type SkillGroup struct {
	Title   string   `yaml:"title" validate:"required"`
	Summary string   `yaml:"summary"`
	Skills  []string `yaml:"skills" validate:"min=1,dive,required"`
}

type Project struct {
	Title       string   `yaml:"title" validate:"required"`
	Description string   `yaml:"description" validate:"required"`
	Tech        []string `yaml:"tech" validate:"min=1,dive,required"`
	Image       string   `yaml:"image" validate:"required"`
	Source      string   `yaml:"source" validate:"required,url"`
	Demo        string   `yaml:"demo" validate:"omitempty,url"`
	Featured    bool     `yaml:"featured"`
}

type Contact struct {
	Email    string   `yaml:"email" validate:"required,email"`
	Phone    string   `yaml:"phone"`
	Location string   `yaml:"location"`
	Socials  []Social `yaml:"socials" validate:"dive"`
	Note     string   `yaml:"note"`
}

type Social struct {
	Name string `yaml:"name" validate:"required"`
	Icon string `yaml:"icon"`
	URL  string `yaml:"url" validate:"required,url"`
}

// Featured returns the projects flagged as featured, in order.
func (s *Site) Featured() []Project {
	var out []Project
	for _, p := range s.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates YAML site data.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalid, err)
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &s, nil
}

// Load reads site data from a YAML file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load content %s: %w", path, err)
	}
	return s, nil
}

// Default returns the site data compiled into the binary.
func Default() (*Site, error) {
	return Parse(defaultSite)
}

// MustDefault is Default for program start-up; broken embedded content is a
// build defect.
func MustDefault() *Site {
	s, err := Default()
	if err != nil {
		panic(err)
	}
	return s
}
