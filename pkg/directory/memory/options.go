package memory

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/identity"
)

// Option is a function that configures a Directory.
type Option func(*Directory) error

// WithIDGenerator replaces the uuid generator, which makes ids predictable in tests.
func WithIDGenerator(next func() string) Option {
	return func(d *Directory) error {
		if next == nil {
			return fmt.Errorf("id generator cannot be nil")
		}
		d.newID = next
		return nil
	}
}

// WithPreload seeds the directory from a YAML fixture.
func WithPreload(data []byte) Option {
	return func(d *Directory) error {
		if len(data) == 0 {
			return fmt.Errorf("preload data cannot be empty")
		}
		var f Fixture
		if err := yaml.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("parsing fixture: %w", err)
		}
		return f.apply(d)
	}
}

// WithFixtureFile seeds the directory from a YAML fixture on disk.
func WithFixtureFile(path string) Option {
	return func(d *Directory) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.NewIOError("read", path, err)
		}
		return WithPreload(data)(d)
	}
}

// Fixture is the on-disk shape of a seeded directory.
//
//	groups:
//	  - {id: g1, name: Faculty}
//	identities:
//	  - {id: u1, primary_key: alice@example.edu, status: active, groups: [g1]}
type Fixture struct {
	Groups     []FixtureGroup    `yaml:"groups"`
	Identities []FixtureIdentity `yaml:"identities"`
}

// FixtureGroup is one group in a Fixture.
type FixtureGroup struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// FixtureIdentity is one identity in a Fixture.
type FixtureIdentity struct {
	ID          string   `yaml:"id"`
	PrimaryKey  string   `yaml:"primary_key"`
	SecondaryID string   `yaml:"secondary_id"`
	FirstName   string   `yaml:"first_name"`
	LastName    string   `yaml:"last_name"`
	Status      string   `yaml:"status"`
	Groups      []string `yaml:"groups"`
}

func (f Fixture) apply(d *Directory) error {
	for _, g := range f.Groups {
		if g.Name == "" {
			return fmt.Errorf("fixture group %q has no name", g.ID)
		}
		d.AddGroup(g.ID, g.Name)
	}
	for _, fi := range f.Identities {
		status := identity.StatusActive
		if fi.Status != "" {
			s, err := identity.ParseStatus(fi.Status)
			if err != nil {
				return fmt.Errorf("fixture identity %q: %w", fi.PrimaryKey, err)
			}
			status = s
		}
		d.Put(identity.Identity{
			ID:          fi.ID,
			PrimaryKey:  fi.PrimaryKey,
			SecondaryID: fi.SecondaryID,
			FirstName:   fi.FirstName,
			LastName:    fi.LastName,
			Status:      status,
			GroupIDs:    identity.NewGroupIDs(fi.Groups...),
		})
	}
	return nil
}
