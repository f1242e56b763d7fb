package packets

import (
	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/schema"
)

// ServerTable registers every server-to-client packet of the shared schema.
func ServerTable() *schema.Table {
	return schema.NewTable("server").MustRegister(
		func() protocol.Deserializer { return &InitInitServer{} },
		func() protocol.Deserializer { return &ConnectionPlayerServer{} },
		func() protocol.Deserializer { return &TalkServerServer{} },
		func() protocol.Deserializer { return &WarpRequestServer{} },
		func() protocol.Deserializer { return &ItemGetServer{} },
	)
}

// ClientTable registers every client-to-server packet of the shared schema.
func ClientTable() *schema.Table {
	return schema.NewTable("client").MustRegister(
		func() protocol.Deserializer { return &InitInitClient{} },
		func() protocol.Deserializer { return &ConnectionAcceptClient{} },
		func() protocol.Deserializer { return &ConnectionPingClient{} },
		func() protocol.Deserializer { return &WalkPlayerClient{} },
		func() protocol.Deserializer { return &TalkReportClient{} },
	)
}
