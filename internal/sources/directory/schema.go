package directory

// DirectoryConfig represents the top-level structure of directory.yaml
// Crews use dynamic keys, so we parse as []map[string][]map[string]UserProps
type DirectoryConfig []map[string][]map[string]UserProps

// UserProps contains the actual user properties; the map key is the
// username handle
type UserProps struct {
	DisplayName string   `yaml:"displayName"`
	Avatar      string   `yaml:"avatar,omitempty"`
	Role        string   `yaml:"role,omitempty"`
	Followers   int      `yaml:"followers,omitempty"`
	Following   int      `yaml:"following,omitempty"`
	Bio         string   `yaml:"bio,omitempty"`
	ThemeColor  string   `yaml:"themeColor,omitempty"`
	Genres      []string `yaml:"genres,omitempty"`
	DJs         []string `yaml:"djs,omitempty"`
}
