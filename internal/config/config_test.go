package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lc/peerdial/internal/config"
)

type ConfigTestSuite struct {
	suite.Suite
	fs       mockFS
	provider config.Provider
}

type mockFS struct {
	files map[string]string
}

func (m mockFS) Stat(path string) (os.FileInfo, error) {
	if _, ok := m.files[path]; !ok {
		return nil, os.ErrNotExist
	}
	return nil, nil
}

func (m mockFS) MkdirAll(_ string, _ os.FileMode) error {
	return nil
}

func (m mockFS) Open(path string) (*os.File, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	tmp, err := os.CreateTemp("", "mock-*") // caller cleans up in t.Cleanup
	if err != nil {
		return nil, err
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, err
	}
	return tmp, nil
}

func (m mockFS) WriteFile(path string, content []byte, _ os.FileMode) error {
	m.files[path] = string(content)
	return nil
}

func (s *ConfigTestSuite) SetupTest() {
	s.fs = mockFS{
		files: make(map[string]string),
	}
	s.provider = config.NewWithPath(s.fs, "test/config.yaml")
}

func (s *ConfigTestSuite) TestLoad() {
	testCases := []struct {
		name        string
		content     string
		expected    *config.Config
		expectedErr error
	}{
		{
			name:     "missing file returns defaults",
			expected: config.Default(),
		},
		{
			name: "valid configuration",
			content: `name_servers:
  - 9.9.9.9:53
exchange:
  timeout: 500ms
  attempts: 2
`,
			expected: &config.Config{
				NameServers: []string{"9.9.9.9:53"},
				Exchange: config.ExchangeConfig{
					Timeout:  500 * time.Millisecond,
					Attempts: 2,
				},
			},
		},
		{
			name: "name server without port",
			content: `name_servers:
  - 9.9.9.9
exchange:
  timeout: 800ms
  attempts: 3
`,
			expectedErr: config.ErrInvalidConfig,
		},
		{
			name: "timeout too small",
			content: `name_servers:
  - 9.9.9.9:53
exchange:
  timeout: 10ms
  attempts: 3
`,
			expectedErr: config.ErrInvalidConfig,
		},
		{
			name: "zero attempts",
			content: `name_servers:
  - 9.9.9.9:53
exchange:
  timeout: 800ms
  attempts: 0
`,
			expectedErr: config.ErrInvalidConfig,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			if tc.content != "" {
				s.Require().NoError(s.fs.WriteFile("test/config.yaml", []byte(tc.content), 0o644))
			}

			cfg, err := s.provider.Load()

			if tc.expectedErr != nil {
				s.Error(err)
				s.ErrorIs(err, tc.expectedErr)
				return
			}

			s.NoError(err)
			s.Equal(tc.expected, cfg)
		})
	}
}

func (s *ConfigTestSuite) TestValidate() {
	testCases := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{
			name: "defaults are valid",
			cfg:  *config.Default(),
		},
		{
			name: "empty server list is valid",
			cfg: config.Config{
				Exchange: config.ExchangeConfig{
					Timeout:  config.DefaultExchangeTimeout,
					Attempts: config.DefaultExchangeAttempts,
				},
			},
		},
		{
			name: "hostname as name server",
			cfg: config.Config{
				NameServers: []string{"dns.example.com:53"},
				Exchange: config.ExchangeConfig{
					Timeout:  config.DefaultExchangeTimeout,
					Attempts: config.DefaultExchangeAttempts,
				},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.cfg.Validate()
			if tc.wantErr {
				s.Error(err)
				return
			}
			s.NoError(err)
		})
	}
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
