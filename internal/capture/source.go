// Package capture extracts STOMP traffic from packet capture files and
// feeds the TCP payloads through the wire codec, one decode call per
// segment, threading each flow's partial buffer between calls.
package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// packetReader is the common surface of pcapgo's pcap and pcapng readers.
type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// Source reads packets from a capture file (pcap or pcapng).
type Source struct {
	file   *os.File
	reader packetReader
}

// OpenFile opens a capture file, detecting the format by magic.
func OpenFile(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture file %s: %w", path, err)
	}

	reader, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read capture file %s: %w", path, err)
	}
	return &Source{file: f, reader: reader}, nil
}

func newReader(f *os.File) (packetReader, error) {
	if r, err := pcapgo.NewReader(f); err == nil {
		return r, nil
	}
	// Not classic pcap; rewind and try pcapng.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return pcapgo.NewNgReader(f, pcapgo.DefaultNgReaderOptions)
}

// ReadPacket returns the next decoded packet, or io.EOF at end of file.
func (s *Source) ReadPacket() (gopacket.Packet, error) {
	data, ci, err := s.reader.ReadPacketData()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read packet: %w", err)
	}

	pkt := gopacket.NewPacket(data, s.reader.LinkType(), gopacket.Default)
	m := pkt.Metadata()
	m.CaptureInfo = ci
	return pkt, nil
}

// Close releases the underlying file.
func (s *Source) Close() error {
	return s.file.Close()
}
