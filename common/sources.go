package common

import (
	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/util"
)

// Capture source types (input format plus transport).
const (
	SourceTypeCSVFile  = "csv_file"
	SourceTypeTXTFile  = "txt_file"
	SourceTypePcapFile = "pcap_file"
	SourceTypeCSVSSH   = "csv_ssh"
)

// Credential - Credential for a remote capture source.
type Credential struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	PrivateKeyPath string `json:"private_key_path"`
}

// CaptureSource - A sniffer capture source to collect observations from.
type CaptureSource struct {
	Name         string `json:"name"` // Unique
	SourceType   string `json:"source_type"`
	Path         string `json:"path"`          // Local file path, or remote path for SSH sources
	Address      string `json:"address"`       // SSH sources only
	Port         uint   `json:"port"`          // Optional, defaults to normal service port
	CredentialID string `json:"credential_id"` // SSH sources only
}

// GlobalCredentials - List of loaded credentials, identified by some ID.
var GlobalCredentials map[string]Credential

// GlobalSources - List of loaded capture sources, names must be unique.
var GlobalSources []CaptureSource

// LoadCredentials - Load credentials from file from config.
func LoadCredentials() bool {
	if GlobalConfig.CredentialsPath == "" {
		// Allow no credentials if no SSH sources are configured
		GlobalCredentials = map[string]Credential{}
		return true
	}

	log.WithFields(log.Fields{
		"credentials_path": GlobalConfig.CredentialsPath,
	}).Trace("Loading credentials")
	if !util.ParseJSONFile(&GlobalCredentials, GlobalConfig.CredentialsPath) {
		return false
	}

	for credentialID, credential := range GlobalCredentials {
		if credentialID == "" || credential.Username == "" {
			log.WithFields(log.Fields{
				"credential_id":       credentialID,
				"credential_username": credential.Username,
			}).Error("Invalid credential, missing fields")
			return false
		}
	}

	log.WithFields(log.Fields{
		"credential_count": len(GlobalCredentials),
	}).Info("Loaded credentials")

	return true
}

// LoadSources - Load capture sources from file from config.
func LoadSources() bool {
	if GlobalConfig.SourcesPath == "" {
		log.Error("Capture sources config path missing")
		return false
	}

	log.WithFields(log.Fields{
		"sources_path": GlobalConfig.SourcesPath,
	}).Trace("Loading capture sources")
	if !util.ParseJSONFile(&GlobalSources, GlobalConfig.SourcesPath) {
		return false
	}

	sourceNames := make(map[string]bool)
	for _, source := range GlobalSources {
		if source.Name == "" {
			log.Error("Invalid capture source, name missing")
			return false
		}
		// Check for duplicate name
		if _, found := sourceNames[source.Name]; found {
			log.WithFields(log.Fields{
				"source_name": source.Name,
			}).Error("Duplicate capture source name found")
			return false
		}
		sourceNames[source.Name] = true
		// Check if source type exists
		switch sourceType := source.SourceType; sourceType {
		case SourceTypeCSVFile:
		case SourceTypeTXTFile:
		case SourceTypePcapFile:
		case SourceTypeCSVSSH:
		default:
			log.WithFields(log.Fields{
				"source_name": source.Name,
				"source_type": source.SourceType,
			}).Error("Invalid capture source, source type not found")
			return false
		}
		// SSH sources need an address and a known credential ID
		if source.SourceType == SourceTypeCSVSSH {
			if source.Address == "" {
				log.WithFields(log.Fields{
					"source_name": source.Name,
				}).Error("Invalid capture source, address missing")
				return false
			}
			if _, found := GlobalCredentials[source.CredentialID]; !found {
				log.WithFields(log.Fields{
					"source_name":   source.Name,
					"credential_id": source.CredentialID,
				}).Error("Invalid capture source, credential ID not found")
				return false
			}
		} else if source.Path == "" {
			log.WithFields(log.Fields{
				"source_name": source.Name,
			}).Error("Invalid capture source, path missing")
			return false
		}
	}

	log.WithFields(log.Fields{
		"source_count": len(GlobalSources),
	}).Info("Loaded capture sources")

	return true
}
