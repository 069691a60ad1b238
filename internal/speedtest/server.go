package speedtest

// Role is one capability a test server declares.
type Role string

const (
	RolePing     Role = "ping"
	RoleDownload Role = "download"
	RoleUpload   Role = "upload"
)

// Server is one candidate speed-test endpoint. Candidates are tried in the
// order the caller supplies them; the first validated server carrying the
// required role serves each phase.
type Server struct {
	// Name identifies the server in reports and logs.
	Name string `yaml:"name"`

	// Host is the host:port used for reachability probes and TCP-connect
	// latency samples.
	Host string `yaml:"host"`

	// DownloadURL is a printf-style URL with one %d verb for the requested
	// payload size in bytes, e.g. "https://speed.example.com/__down?bytes=%d".
	DownloadURL string `yaml:"download_url"`

	// UploadURL accepts POSTed octet-stream payloads.
	UploadURL string `yaml:"upload_url"`

	// Roles is the server's declared capability set.
	Roles []Role `yaml:"roles"`
}

// HasRole reports whether the server declares the given capability.
func (s Server) HasRole(r Role) bool {
	for _, have := range s.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// validationState tracks a candidate through server selection.
type validationState int

const (
	unvalidated validationState = iota
	validated
	unreachable
)
