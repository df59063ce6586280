package cmd

import "pdfnightmode/converter"

// serverlessEnv lists variables set by hosts with tight memory and time limits
var serverlessEnv = []string{
	"VERCEL",
	"AWS_LAMBDA_FUNCTION_NAME",
}

// detectMode reports the constrained mode when running on a serverless host.
// It only picks a default: config files and --mode take precedence.
func detectMode(getenv func(string) string) (converter.Mode, bool) {
	for _, key := range serverlessEnv {
		if getenv(key) != "" {
			return converter.ModeConstrained, true
		}
	}
	return converter.ModeLocal, false
}
