package directory

import (
	"testing"
)

func TestMapperMapUsers(t *testing.T) {
	config := DirectoryConfig{
		{
			"Residents": []map[string]UserProps{
				{
					"dj_stormrider": {
						DisplayName: "Storm Rider",
						Role:        "resident",
						Followers:   15200,
						Genres:      []string{"techno", "acid"},
					},
				},
				{
					"warehouse_kid": {
						DisplayName: "Warehouse Kid",
					},
				},
			},
		},
	}

	mapper := NewMapper()
	users, err := mapper.MapUsers(config)
	if err != nil {
		t.Fatalf("MapUsers() error = %v", err)
	}

	if len(users) != 2 {
		t.Errorf("MapUsers() returned %v users, want 2", len(users))
	}

	for _, user := range users {
		switch user.Username {
		case "dj_stormrider":
			if user.ID != "u_dj_stormrider" {
				t.Errorf("user ID = %v, want u_dj_stormrider", user.ID)
			}
			if user.Role != "resident" {
				t.Errorf("user Role = %v, want resident", user.Role)
			}
			if user.Favorites == nil || len(user.Favorites.Genres) != 2 {
				t.Error("user Favorites.Genres not mapped")
			}
		case "warehouse_kid":
			// Role defaults when absent
			if user.Role != "raver" {
				t.Errorf("user Role = %v, want raver", user.Role)
			}
		default:
			t.Errorf("unexpected user %v", user.Username)
		}
	}
}

func TestMapperMapUsersEmptyConfig(t *testing.T) {
	config := DirectoryConfig{}
	mapper := NewMapper()
	users, err := mapper.MapUsers(config)

	if err == nil {
		t.Error("MapUsers() with empty config should return error")
	}

	if users != nil {
		t.Errorf("MapUsers() with empty config should return nil users, got %v", len(users))
	}
}

func TestMapperMapUsersSkipsEntriesWithoutDisplayName(t *testing.T) {
	config := DirectoryConfig{
		{
			"Crews": []map[string]UserProps{
				{
					"ghost_user": {}, // no display name, skipped
				},
				{
					"bass_queen": {
						DisplayName: "Bass Queen",
					},
				},
			},
		},
	}

	mapper := NewMapper()
	users, err := mapper.MapUsers(config)
	if err != nil {
		t.Fatalf("MapUsers() error = %v", err)
	}

	if len(users) != 1 {
		t.Errorf("MapUsers() returned %v users, want 1", len(users))
	}
}
