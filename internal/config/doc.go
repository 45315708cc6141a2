// Package config provides configuration management for peerdial.
//
// The package uses a Provider interface to abstract configuration loading, with the
// primary implementation being filesystem-based configuration via YAML files.
//
// # Configuration Structure
//
// Configuration is structured as follows:
//
//	name_servers:
//	  - 1.1.1.1:53        # Recursive resolvers, tried in list order
//	  - 8.8.8.8:53
//	exchange:
//	  timeout: 800ms      # Receive timeout per DNS exchange attempt
//	  attempts: 3         # Send attempts per exchange before giving up
//
// # Basic Usage
//
// Load configuration using the default path (~/.peerdial/config.yaml):
//
//	provider := config.New()
//	cfg, err := provider.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Load configuration from a specific path:
//
//	provider := config.NewWithPath(filesys.OS(), "/etc/peerdial/config.yaml")
//	cfg, err := provider.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration Validation
//
// The package performs validation of loaded configuration:
//   - Every name server must parse as a literal "ip:port" address
//   - Exchange timeout must be at least 100ms
//   - Exchange attempts must be at least 1
//
// # Default Configuration
//
// If no configuration file exists, the following defaults are used:
//   - Name Servers: 1.1.1.1:53, 8.8.8.8:53
//   - Exchange Timeout: 800ms
//   - Exchange Attempts: 3
//
// # Error Handling
//
// The package defines several error types:
//   - ErrInvalidConfig: Configuration validation failed
//   - ErrNoConfig: Configuration file not found (returns defaults)
//
// The package is designed to be extensible, allowing for additional
// configuration providers to be implemented (e.g., environment variables,
// remote configuration services) by implementing the Provider interface.
package config
