package capture

import (
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/patrickmn/go-cache"

	"firestige.xyz/stomptap/internal/config"
	"firestige.xyz/stomptap/pkg/codec"
	"firestige.xyz/stomptap/pkg/frame"
	"firestige.xyz/stomptap/pkg/log"
)

// FlowKey identifies one direction of a TCP connection.
type FlowKey struct {
	SrcIP   string
	DstIP   string
	SrcPort uint16
	DstPort uint16
}

func (k FlowKey) String() string {
	return fmt.Sprintf("%s:%d->%s:%d", k.SrcIP, k.SrcPort, k.DstIP, k.DstPort)
}

// stream is the decode state of one flow: the codec's carried-over
// partial buffer. Everything else lives in the messages already emitted.
type stream struct {
	partial []byte
}

// Sink receives every decoded message together with its flow.
type Sink func(key FlowKey, msg frame.Message)

// Assembler routes TCP payloads to per-flow codec state. Flows idle
// longer than the configured TTL are evicted, dropping whatever partial
// bytes they still carried.
//
// Segments are decoded in capture-file order; retransmissions and
// reordered segments are not resequenced.
type Assembler struct {
	port   int
	binary bool
	flows  *cache.Cache
	sink   Sink
	logger log.Logger

	packets  uint64
	payloads uint64
}

// NewAssembler creates an assembler delivering decoded messages to sink.
func NewAssembler(cfg config.CaptureConfig, binary bool, sink Sink) *Assembler {
	ttl := cfg.FlowTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Assembler{
		port:   cfg.Port,
		binary: binary,
		flows:  cache.New(ttl, ttl),
		sink:   sink,
		logger: log.GetLogger().WithField("component", "capture"),
	}
}

// Run drains a source until EOF.
func (a *Assembler) Run(src *Source) error {
	for {
		pkt, err := src.ReadPacket()
		if err == io.EOF {
			a.logger.WithFields(map[string]interface{}{
				"packets":  a.packets,
				"payloads": a.payloads,
				"flows":    a.flows.ItemCount(),
			}).Info("capture file drained")
			return nil
		}
		if err != nil {
			return err
		}
		a.packets++
		a.HandlePacket(pkt)
	}
}

// HandlePacket feeds one packet's TCP payload into its flow, if the
// packet matches the port filter and carries data.
func (a *Assembler) HandlePacket(pkt gopacket.Packet) {
	tcpLayer := pkt.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil {
		return
	}
	tcp := tcpLayer.(*layers.TCP)
	if a.port != 0 && int(tcp.SrcPort) != a.port && int(tcp.DstPort) != a.port {
		return
	}
	if len(tcp.Payload) == 0 {
		return
	}
	netLayer := pkt.NetworkLayer()
	if netLayer == nil {
		return
	}

	netFlow := netLayer.NetworkFlow()
	key := FlowKey{
		SrcIP:   netFlow.Src().String(),
		DstIP:   netFlow.Dst().String(),
		SrcPort: uint16(tcp.SrcPort),
		DstPort: uint16(tcp.DstPort),
	}
	a.payloads++
	a.feed(key, tcp.Payload)
}

// feed runs one decode call for the flow and emits the decoded messages.
func (a *Assembler) feed(key FlowKey, payload []byte) {
	id := key.String()

	st := &stream{}
	if cached, found := a.flows.Get(id); found {
		st = cached.(*stream)
	}

	res := codec.Unmarshal(st.partial, payload, a.binary)
	st.partial = res.Partial
	// Re-set to refresh the idle TTL.
	a.flows.SetDefault(id, st)

	if a.logger.IsDebugEnabled() && len(res.Messages) > 0 {
		a.logger.WithFields(map[string]interface{}{
			"flow":     id,
			"messages": len(res.Messages),
			"partial":  len(res.Partial),
		}).Debug("decoded segment")
	}

	for _, msg := range res.Messages {
		a.sink(key, msg)
	}
}
