package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
)

// Seed is the JSON document loaded by the memory storage driver.
type Seed struct {
	Countries    []models.Country    `json:"countries" validate:"dive"`
	Universities []models.University `json:"universities" validate:"dive"`
	Majors       []models.Major      `json:"majors" validate:"dive"`
	Blogs        []models.Blog       `json:"blogs" validate:"dive"`
}

// MemoryStores groups the in-memory collections.
type MemoryStores struct {
	Countries    *MemoryStore[models.Country]
	Universities *MemoryStore[models.University]
	Majors       *MemoryStore[models.Major]
	Blogs        *MemoryStore[models.Blog]
}

// NewMemoryStores builds the four collections from a seed.
func NewMemoryStores(seed Seed) *MemoryStores {
	return &MemoryStores{
		Countries:    NewMemoryStore(seed.Countries, byName),
		Universities: NewMemoryStore(seed.Universities, byName),
		Majors:       NewMemoryStore(seed.Majors, byName),
		Blogs:        NewMemoryStore(seed.Blogs, byPublishedAt),
	}
}

// LoadSeed reads and validates a seed file. A missing file yields an empty seed.
func LoadSeed(path string, validate *validator.Validate) (Seed, error) {
	var seed Seed
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return seed, nil
		}
		return seed, fmt.Errorf("read seed %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &seed); err != nil {
		return seed, fmt.Errorf("decode seed %s: %w", path, err)
	}
	if validate == nil {
		validate = validator.New()
	}
	if err := validate.Struct(seed); err != nil {
		return seed, fmt.Errorf("validate seed %s: %w", path, err)
	}
	return seed, nil
}
