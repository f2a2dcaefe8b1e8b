// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-compliant helper functions for cross-platform compatibility.
//
// Key functions:
//   - GetExecutableName: Returns the executable name without extension for CLI usage
//
// The CLI uses it so that usage strings and examples name the binary the
// way it was invoked:
//
//	rootCmd := &cobra.Command{
//	    Use: posix.GetExecutableName(),
//	}
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
