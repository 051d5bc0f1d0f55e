// Package config loads, defaults and validates the bakery configuration.
//
// Configuration comes from a YAML file, with BAKERY_SECTION_FIELD
// environment variables taking precedence over file values. Loading always
// applies defaults first and validates the final result, so a Config
// obtained from Load is ready to use.
package config
