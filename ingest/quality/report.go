package quality

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/smartshop-ai/smartshop/errors"
)

// Write persists the report as a JSON artifact under dir, named
// <domain>_<source-stem>_<timestamp>.json. Returns the path written.
func Write(dir string, report Report, logger *zap.SugaredLogger) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "create report directory %s", dir)
	}

	stem := strings.TrimSuffix(filepath.Base(report.Source), filepath.Ext(report.Source))
	filename := report.Domain + "_" + stem + "_" + report.Timestamp.Format("20060102_150405") + ".json"
	path := filepath.Join(dir, filename)

	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "marshal report")
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", errors.Wrapf(err, "write report %s", path)
	}

	if logger != nil {
		logger.Infow("Quality report saved",
			"path", path,
			"status", report.Status,
			"violations", len(report.Violations),
		)
	}

	return path, nil
}
