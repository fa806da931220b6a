package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shoken-assist/backend/internal/agent/deps"
	"shoken-assist/backend/internal/model"
)

// Property names stored under each user's prefix
const (
	PropAPIKey       = "GEMINI_API_KEY"
	PropStyleProfile = "STYLE_PROFILE_V1"
	PropStyleSamples = "STYLE_SAMPLES_V1"
)

// Sample collection guidance shown while a user has no samples yet
const (
	SampleHeading = "過去に自分で作成した所見文（1項目=1件）"
	SampleHint    = "例）一学期当初は〜 のように、実名や具体的大会名などは書かないでください。"
)

// UserContext scopes persisted settings to one user. It implements
// deps.CredentialSource for the generation client.
type UserContext struct {
	UserID string
	Store  deps.KeyValueStore
	// FallbackAPIKey is the server-wide key used when the user has none
	FallbackAPIKey string
}

// NewUserContext creates a UserContext
func NewUserContext(userID string, store deps.KeyValueStore, fallbackAPIKey string) *UserContext {
	return &UserContext{UserID: userID, Store: store, FallbackAPIKey: fallbackAPIKey}
}

func (u *UserContext) key(prop string) string {
	return u.UserID + ":" + prop
}

// APIKey returns the user's key, else the fallback, else "".
func (u *UserContext) APIKey(ctx context.Context) (string, error) {
	v, ok, err := u.Store.Get(ctx, u.key(PropAPIKey))
	if err != nil {
		return "", fmt.Errorf("failed to read api key: %w", err)
	}
	if ok && v != "" {
		return v, nil
	}
	return u.FallbackAPIKey, nil
}

// HasAPIKey reports whether a key is available, counting the fallback
func (u *UserContext) HasAPIKey(ctx context.Context) (bool, error) {
	k, err := u.APIKey(ctx)
	return k != "", err
}

// SaveAPIKey stores the trimmed key
func (u *UserContext) SaveAPIKey(ctx context.Context, key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return &model.EmptyInputError{Field: "api_key"}
	}
	return u.Store.Set(ctx, u.key(PropAPIKey), trimmed)
}

// StyleProfile returns the stored profile or nil when none is saved
func (u *UserContext) StyleProfile(ctx context.Context) (*model.StyleProfile, error) {
	v, ok, err := u.Store.Get(ctx, u.key(PropStyleProfile))
	if err != nil {
		return nil, fmt.Errorf("failed to read style profile: %w", err)
	}
	if !ok || v == "" {
		return nil, nil
	}

	var profile model.StyleProfile
	if err := json.Unmarshal([]byte(v), &profile); err != nil {
		return nil, &model.ProfileLoadError{Cause: err}
	}
	profile = profile.WithDefaults()
	return &profile, nil
}

// SaveStyleProfile replaces the stored profile
func (u *UserContext) SaveStyleProfile(ctx context.Context, profile *model.StyleProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode style profile: %w", err)
	}
	return u.Store.Set(ctx, u.key(PropStyleProfile), string(data))
}

// ResetStyleProfile removes the stored profile
func (u *UserContext) ResetStyleProfile(ctx context.Context) error {
	return u.Store.Delete(ctx, u.key(PropStyleProfile))
}

// Samples returns the stored sample collection
func (u *UserContext) Samples(ctx context.Context) ([]string, error) {
	v, ok, err := u.Store.Get(ctx, u.key(PropStyleSamples))
	if err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	if !ok || v == "" {
		return []string{}, nil
	}

	var samples []string
	if err := json.Unmarshal([]byte(v), &samples); err != nil {
		return nil, fmt.Errorf("failed to decode samples: %w", err)
	}
	return samples, nil
}

// SaveSamples replaces the sample collection. Blank entries are dropped.
func (u *UserContext) SaveSamples(ctx context.Context, samples []string) ([]string, error) {
	kept := CleanSamples(samples)
	data, err := json.Marshal(kept)
	if err != nil {
		return nil, fmt.Errorf("failed to encode samples: %w", err)
	}
	if err := u.Store.Set(ctx, u.key(PropStyleSamples), string(data)); err != nil {
		return nil, err
	}
	return kept, nil
}

// CleanSamples trims each sample and drops the empty ones
func CleanSamples(samples []string) []string {
	kept := make([]string, 0, len(samples))
	for _, s := range samples {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return kept
}
