// Package utils provides common utility functions for the asset-manager application.
// It includes helper functions for type conversion, string manipulation, and other
// shared logic that doesn't fit into domain-specific packages.
package utils
