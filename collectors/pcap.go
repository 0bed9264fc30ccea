package collectors

import (
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	log "github.com/sirupsen/logrus"

	"github.com/usuario9410/analisador-mac-adress/common"
)

// ReadPcapFile - Read observations from an offline 802.11 capture. Each
// management frame with a transmitter address becomes one observation;
// RadioTap supplies the RSSI and probe-request SSIDs supply the advertised
// name when present.
func ReadPcapFile(path string) ([]common.Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, err := pcapgo.NewReader(file)
	if err != nil {
		return nil, err
	}

	packetSource := gopacket.NewPacketSource(reader, reader.LinkType())

	var observations []common.Observation
	frameCount := 0
	for packet := range packetSource.Packets() {
		frameCount++

		dot11Layer := packet.Layer(layers.LayerTypeDot11)
		if dot11Layer == nil {
			continue
		}
		dot11 := dot11Layer.(*layers.Dot11)
		if len(dot11.Address2) == 0 {
			continue
		}

		observation := common.Observation{
			MAC:  dot11.Address2.String(),
			RSSI: common.RSSIMissing,
		}
		if metadata := packet.Metadata(); metadata != nil {
			observation.Timestamp = metadata.Timestamp
		}
		if radioTapLayer := packet.Layer(layers.LayerTypeRadioTap); radioTapLayer != nil {
			radioTap := radioTapLayer.(*layers.RadioTap)
			if radioTap.Present.DBMAntennaSignal() {
				observation.RSSI = int(radioTap.DBMAntennaSignal)
			}
		}
		// Probe requests advertise the searched SSID, a usable name signal
		for _, layer := range packet.Layers() {
			if element, ok := layer.(*layers.Dot11InformationElement); ok {
				if element.ID == layers.Dot11InformationElementIDSSID && len(element.Info) > 0 {
					observation.Name = string(element.Info)
					break
				}
			}
		}

		observations = append(observations, observation)
	}

	log.WithFields(log.Fields{
		"path":         path,
		"frames":       frameCount,
		"observations": len(observations),
	}).Trace("Read capture file")

	return observations, nil
}
