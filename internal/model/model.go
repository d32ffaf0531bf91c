// Package model holds the read-only snapshots of marketplace documents the
// pipeline consumes, and the collection names it touches.
package model

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

const (
	// Collections owned by other subsystems, read here.
	ProfilesCollection = "profiles"
	ProjectsCollection = "projects"

	// Collections owned by the pipeline.
	JobsCollection             = "match_jobs"
	MatchesBySeekerCollection  = "matches_by_seeker"
	MatchesByProjectCollection = "matches_by_project"
	ErrorsCollection           = "match_errors"
)

// Profile is a seeker/mentor/founder snapshot taken at match time.
type Profile struct {
	UID             string   `json:"uid" mapstructure:"uid"`
	Role            string   `json:"role" mapstructure:"role"`
	Headline        string   `json:"headline" mapstructure:"headline"`
	Skills          []string `json:"skills" mapstructure:"skills"`
	Interests       []string `json:"interests" mapstructure:"interests"`
	LookingFor      []string `json:"lookingFor" mapstructure:"lookingFor"`
	Location        string   `json:"location" mapstructure:"location"`
	RemoteOpen      bool     `json:"remoteOpen" mapstructure:"remoteOpen"`
	ExperienceYears float64  `json:"experienceYears" mapstructure:"experienceYears"`
	Age             int      `json:"age" mapstructure:"age"`
}

// Project is an open-project snapshot.
type Project struct {
	ProjectID    string   `json:"projectId" mapstructure:"projectId"`
	Title        string   `json:"title" mapstructure:"title"`
	Tags         []string `json:"tags" mapstructure:"tags"`
	SkillsNeeded []string `json:"skillsNeeded" mapstructure:"skillsNeeded"`
	OwnerRole    string   `json:"ownerRole" mapstructure:"ownerRole"`
	IsOpen       bool     `json:"isOpen" mapstructure:"isOpen"`
	WorkMode     string   `json:"workMode" mapstructure:"workMode"`
	Description  string   `json:"description" mapstructure:"description"`
}

// DecodeProfile builds a Profile from a raw document. The document id wins
// over any uid field stored in the data.
func DecodeProfile(id string, data map[string]any) (*Profile, error) {
	var p Profile
	if err := decode(data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", id, err)
	}
	p.UID = id
	return &p, nil
}

// DecodeProject builds a Project from a raw document.
func DecodeProject(id string, data map[string]any) (*Project, error) {
	var p Project
	if err := decode(data, &p); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	p.ProjectID = id
	return &p, nil
}

func decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
