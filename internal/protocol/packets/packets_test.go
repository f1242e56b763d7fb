package packets

import (
	"testing"

	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/custom"
	"github.com/danmuck/eoclient/internal/protocol/eodata"
	"github.com/danmuck/eoclient/internal/protocol/schema"
	"github.com/danmuck/eoclient/internal/testutil/testlog"
)

func TestFallbackDoesNotCollideWithSharedSchema(t *testing.T) {
	testlog.Start(t)
	fb := custom.Fallback()
	if err := schema.Validate(ServerTable(), fb); err != nil {
		t.Fatalf("server table: %v", err)
	}
	if err := schema.Validate(ClientTable(), fb); err != nil {
		t.Fatalf("client table: %v", err)
	}
}

func TestTablesRegisterEveryType(t *testing.T) {
	testlog.Start(t)
	if got := len(ServerTable().IDs()); got != 5 {
		t.Fatalf("server table size=%d", got)
	}
	ids := ClientTable().IDs()
	if len(ids) != 5 {
		t.Fatalf("client table size=%d", len(ids))
	}
	if ids[0] != protocol.ID(protocol.FamilyConnection, protocol.ActionAccept) {
		t.Fatalf("ids not ordered: %v", ids)
	}
	if !ClientTable().Has(protocol.InitID) || !ServerTable().Has(protocol.InitID) {
		t.Fatalf("init packet missing from a direction")
	}
}

func TestInitReplyVariants(t *testing.T) {
	testlog.Start(t)
	cases := []InitInitServer{
		{Result: InitReplyOK, Seq1: 10, Seq2: 3, Multiplier: 8, PlayerID: 12, ChallengeResponse: 55},
		{Result: InitReplyOutOfDate, Version: [3]int{0, 0, 28}},
		{Result: InitReplyBanned, BanMinutes: 30},
	}
	for _, in := range cases {
		w := eodata.NewWriter()
		if err := in.Serialize(w); err != nil {
			t.Fatalf("serialize %+v: %v", in, err)
		}
		var out InitInitServer
		if err := out.Deserialize(eodata.NewReader(w.Bytes())); err != nil {
			t.Fatalf("deserialize %+v: %v", in, err)
		}
		if out != in {
			t.Fatalf("got=%+v want=%+v", out, in)
		}
	}
}

func TestSerializeRejectsOutOfRangeFields(t *testing.T) {
	testlog.Start(t)
	w := eodata.NewWriter()
	if err := (WalkPlayerClient{Direction: 300}).Serialize(w); err == nil {
		t.Fatalf("expected range error for char field")
	}
}
