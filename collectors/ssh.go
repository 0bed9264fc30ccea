package collectors

import (
	"bytes"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"

	"github.com/usuario9410/analisador-mac-adress/common"
)

func checkSourceFailure(source common.CaptureSource, message string, err error) bool {
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"source": source.Name,
		}).Warnf("Source error: %v", message)
		return false
	}
	return true
}

func openSSHClient(source common.CaptureSource) (*ssh.Client, bool) {
	// Get credential
	credential, foundCredential := common.GlobalCredentials[source.CredentialID]
	if !foundCredential {
		log.WithFields(log.Fields{
			"source": source.Name,
		}).Warnf("Failed to find credential: %v", source.CredentialID)
		return nil, false
	}

	// Setup SSH config
	authMethods := make([]ssh.AuthMethod, 0)
	if credential.Password != "" {
		authMethods = append(authMethods, ssh.Password(credential.Password))
	}
	if credential.PrivateKeyPath != "" {
		privkey, err := os.ReadFile(credential.PrivateKeyPath)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"source": source.Name,
			}).Warnf("Failed to read SSH private key: %v", credential.PrivateKeyPath)
			return nil, false
		}
		signer, err := ssh.ParsePrivateKey(privkey)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"source": source.Name,
			}).Warnf("Failed to parse SSH private key: %v", credential.PrivateKeyPath)
			return nil, false
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}
	sshConfig := ssh.ClientConfig{
		User:            credential.Username,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Auth:            authMethods,
	}

	// Build full address
	port := uint(22)
	if source.Port > 0 {
		port = source.Port
	}
	fullAddress := fmt.Sprintf("%v:%v", source.Address, port)

	// Open connection
	sshClient, err := ssh.Dial("tcp", fullAddress, &sshConfig)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"source": source.Name,
		}).Warnf("Failed to connect to source: %v", fullAddress)
		return nil, false
	}

	return sshClient, true
}

// CollectSSH - Pull a capture CSV from a remote sniffer host over SSH and
// parse it into observations.
func CollectSSH(source common.CaptureSource) ([]common.Observation, bool) {
	sshClient, sshClientOpenSuccess := openSSHClient(source)
	if !sshClientOpenSuccess {
		return nil, false
	}
	defer sshClient.Close()

	session, err := sshClient.NewSession()
	if !checkSourceFailure(source, "Failed to start session", err) {
		return nil, false
	}
	defer session.Close()

	command := fmt.Sprintf("cat %s", source.Path)
	output, err := session.Output(command)
	if !checkSourceFailure(source, fmt.Sprintf("Failed to run SSH command: %v", command), err) {
		return nil, false
	}

	observations, err := ReadCSV(bytes.NewReader(output))
	if !checkSourceFailure(source, "Failed to parse remote capture table", err) {
		return nil, false
	}

	log.WithFields(log.Fields{
		"source":       source.Name,
		"observations": len(observations),
	}).Trace("Collected remote capture table")

	return observations, true
}
