// Package validate checks parsed labels against a data dictionary.
//
// Validation never stops at the first finding. Every validator returns a
// Result holding its verdict and the diagnostics it produced; callers merge
// results explicitly. Only structural problems (an object with no dictionary
// definition at all) surface as errors, and callers handle those per object.
//
// The dictionary and the statement tree are only read, so several labels can
// be validated concurrently against one Dictionary as long as each validation
// collects into its own Result.
package validate
