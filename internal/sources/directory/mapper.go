package directory

import (
	"fmt"

	"github.com/ravetok/nexus/internal/domain"
)

// Mapper converts directory config entries to domain.User entities
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapUsers converts a DirectoryConfig to []*domain.User. The map key is the
// username handle; entries without a display name are skipped.
func (m *Mapper) MapUsers(config DirectoryConfig) ([]*domain.User, error) {
	var users []*domain.User

	for _, crewMap := range config {
		for crewName, userList := range crewMap {
			_ = crewName // Crew name available if needed

			for _, userMap := range userList {
				for username, props := range userMap {
					if username == "" || props.DisplayName == "" {
						continue
					}

					user := &domain.User{
						ID:          "u_" + username,
						Username:    username,
						DisplayName: props.DisplayName,
						Avatar:      props.Avatar,
						Role:        props.Role,
						Followers:   props.Followers,
						Following:   props.Following,
						Bio:         props.Bio,
						ThemeColor:  props.ThemeColor,
					}
					if user.Role == "" {
						user.Role = "raver"
					}
					if len(props.Genres) > 0 || len(props.DJs) > 0 {
						user.Favorites = &domain.Favorites{
							Genres: props.Genres,
							DJs:    props.DJs,
						}
					}

					users = append(users, user)
				}
			}
		}
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no valid users found in directory config")
	}

	return users, nil
}
