package view

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed team.yaml
var defaultTeam []byte

// TeamMember is one entry of the about-page roster.
type TeamMember struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	PicturePath string `yaml:"picture_path"`
	TwitterURL  string `yaml:"twitter_url"`
	LinkedInURL string `yaml:"linkedin_url"`
	GitHubURL   string `yaml:"github_url"`
	Bio         string `yaml:"bio"`
}

type teamFile struct {
	Members []TeamMember `yaml:"members"`
}

// LoadTeam reads the roster from path, or the embedded default when path is empty.
func LoadTeam(path string) ([]TeamMember, error) {
	data := defaultTeam
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read team file: %w", err)
		}
		data = raw
	}
	return ParseTeam(data)
}

// ParseTeam decodes a roster document.
func ParseTeam(data []byte) ([]TeamMember, error) {
	var file teamFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse team file: %w", err)
	}
	for i, member := range file.Members {
		if member.Name == "" {
			return nil, fmt.Errorf("team member %d: name is required", i+1)
		}
	}
	return file.Members, nil
}

// Shuffled returns a randomly ordered copy of members.
func Shuffled(members []TeamMember) []TeamMember {
	out := make([]TeamMember, len(members))
	copy(out, members)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
