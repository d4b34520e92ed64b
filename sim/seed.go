package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedFile describes the YAML file used to pre-provision the simulator
// with local accounts and contacts.
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// SeedUser is one pre-provisioned account.
type SeedUser struct {
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	Email       string        `yaml:"email"`
	PhoneNumber string        `yaml:"phoneNumber"`
	Contacts    []SeedContact `yaml:"contacts"`
}

// SeedContact is one pre-provisioned address-book entry.
type SeedContact struct {
	Name        string `yaml:"name"`
	PhoneNumber string `yaml:"phoneNumber"`
	Email       string `yaml:"email"`
	Notes       string `yaml:"notes"`
}

// SeedFromFile loads a YAML seed file into the store.
func (s *Sim) SeedFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}
	return s.Seed(seed)
}

// Seed provisions accounts and contacts from an in-memory seed.
func (s *Sim) Seed(seed SeedFile) error {
	for _, u := range seed.Users {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("seed user needs username and password")
		}
		if _, err := s.store.CreateUser(u.Username, u.Password, u.Email, u.PhoneNumber); err != nil {
			return fmt.Errorf("seeding user %q: %w", u.Username, err)
		}
		for _, c := range u.Contacts {
			s.store.AddContact(u.Username, Contact{
				Name:        c.Name,
				PhoneNumber: c.PhoneNumber,
				Email:       c.Email,
				Notes:       c.Notes,
			})
		}
		s.logger.Info("seeded user", "username", u.Username, "contacts", len(u.Contacts))
	}
	return nil
}
