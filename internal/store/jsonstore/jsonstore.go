package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/posts/internal/model"
)

// JSON snapshots of a post list. Single file, human-readable, same shape
// as the remote endpoint so a snapshot can be served back by the fixture
// server or fed to the static provider.

// Load reads posts from path. The file must exist and hold a JSON array.
func Load(path string) ([]model.Post, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var posts []model.Post
	if err := json.Unmarshal(b, &posts); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if posts == nil {
		return nil, errors.New("json unmarshal: expected an array of posts")
	}
	return posts, nil
}

// Save writes posts to path, creating parent directories as needed.
func Save(path string, posts []model.Post) error {
	if posts == nil {
		posts = []model.Post{}
	}
	b, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
