package cli

// Export internal functions for testing.

// RunBatch exports runBatch for testing.
var RunBatch = runBatch

// RunFormat exports runFormat for testing.
var RunFormat = runFormat

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// RunConfigPath exports runConfigPath for testing.
var RunConfigPath = runConfigPath

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// ResolveMode exports resolveMode for testing.
var ResolveMode = resolveMode

// LoadSettings exports loadSettings for testing.
var LoadSettings = loadSettings

// PrintSummary exports printSummary for testing.
var PrintSummary = printSummary

// BatchOptions exports batchOptions for testing.
type BatchOptions = batchOptions

// FormatOptions exports formatOptions for testing.
type FormatOptions = formatOptions

// SplitFlag exports splitFlag for testing.
type SplitFlag = splitFlag
