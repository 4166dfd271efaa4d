package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// requireSet collects the names of empty values and reports them in one error.
func requireSet(vars map[string]string) error {
	var missing []string
	for name, value := range vars {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: missing required environment variables: %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	return nil
}

// Validate checks that all required server settings are present and sane.
func (s *Server) Validate() error {
	if err := requireSet(map[string]string{
		"DATABASE_URL":   s.DatabaseURL,
		"S3_ENDPOINT":    s.S3Endpoint,
		"S3_ACCESS_KEY":  s.S3AccessKey,
		"S3_SECRET_KEY":  s.S3SecretKey,
		"S3_BUCKET_NAME": s.S3BucketName,
		"API_V1_PREFIX":  s.APIPrefix,
	}); err != nil {
		return err
	}

	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("%w: PORT must be between 1 and 65535, got %d", ErrInvalidConfig, s.Port)
	}
	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: MAX_UPLOAD_BYTES must be positive", ErrInvalidConfig)
	}
	if !strings.HasPrefix(s.APIPrefix, "/") {
		return fmt.Errorf("%w: API_V1_PREFIX must start with /", ErrInvalidConfig)
	}

	return nil
}

// Validate checks the client settings.
func (c *Client) Validate() error {
	if err := requireSet(map[string]string{"TIMELINE_API_URL": c.APIURL}); err != nil {
		return err
	}

	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: TIMELINE_API_URL must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.APIURL)
	}
	if c.SuccessWindow <= 0 {
		return fmt.Errorf("%w: TIMELINE_SUCCESS_WINDOW must be positive", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}
