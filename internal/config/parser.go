package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	cdoterrors "github.com/alexisbeaulieu97/cdotctl/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ReadDocument loads a document from disk. Connection defaults are applied;
// environment fallbacks and validation are left to Resolve so callers can
// layer flag overrides in between.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cdoterrors.NewParseError(path, 0, err)
	}
	return decodeDocument(path, data)
}

func decodeDocument(path string, data []byte) (*Document, error) {
	doc := Document{Connection: DefaultConnection()}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, cdoterrors.NewParseError(path, extractLine(err), err)
	}
	return &doc, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
