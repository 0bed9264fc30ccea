package util

import (
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// ParseJSONFile reads a file and parses it as JSON, using the provided object.
func ParseJSONFile(destination interface{}, path string) bool {
	log.WithFields(log.Fields{
		"datatype": fmt.Sprintf("%T", destination),
		"path":     path,
	}).Trace("Parsing JSON file")

	dat, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Errorf("Failed to read file: %v", path)
		return false
	}
	if err := json.Unmarshal(dat, destination); err != nil {
		log.WithError(err).Errorf("Failed to parse file: %v", path)
		return false
	}

	return true
}
