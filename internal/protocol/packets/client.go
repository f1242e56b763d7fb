package packets

import (
	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/eodata"
)

// InitInitClient opens the handshake. It travels unobfuscated.
type InitInitClient struct {
	Challenge int
	Major     int
	Minor     int
	Patch     int
	Hdid      string
}

func (InitInitClient) Family() protocol.Family { return protocol.FamilyInit }
func (InitInitClient) Action() protocol.Action { return protocol.ActionInit }

func (p InitInitClient) Serialize(w *eodata.Writer) error {
	if err := w.AddThree(p.Challenge); err != nil {
		return err
	}
	for _, v := range []int{p.Major, p.Minor, p.Patch} {
		if err := w.AddChar(v); err != nil {
			return err
		}
	}
	if err := w.AddChar(len(p.Hdid)); err != nil {
		return err
	}
	w.AddString(p.Hdid)
	return nil
}

func (p *InitInitClient) Deserialize(r *eodata.Reader) error {
	var err error
	if p.Challenge, err = r.GetThree(); err != nil {
		return err
	}
	if p.Major, err = r.GetChar(); err != nil {
		return err
	}
	if p.Minor, err = r.GetChar(); err != nil {
		return err
	}
	if p.Patch, err = r.GetChar(); err != nil {
		return err
	}
	n, err := r.GetChar()
	if err != nil {
		return err
	}
	p.Hdid, err = r.GetFixedString(n)
	return err
}

// ConnectionAcceptClient confirms the negotiated multiplier.
type ConnectionAcceptClient struct {
	Multiplier int
	PlayerID   int
}

func (ConnectionAcceptClient) Family() protocol.Family { return protocol.FamilyConnection }
func (ConnectionAcceptClient) Action() protocol.Action { return protocol.ActionAccept }

func (p ConnectionAcceptClient) Serialize(w *eodata.Writer) error {
	if err := w.AddShort(p.Multiplier); err != nil {
		return err
	}
	return w.AddShort(p.PlayerID)
}

func (p *ConnectionAcceptClient) Deserialize(r *eodata.Reader) error {
	var err error
	if p.Multiplier, err = r.GetShort(); err != nil {
		return err
	}
	p.PlayerID, err = r.GetShort()
	return err
}

// ConnectionPingClient answers a server ping.
type ConnectionPingClient struct{}

func (ConnectionPingClient) Family() protocol.Family { return protocol.FamilyConnection }
func (ConnectionPingClient) Action() protocol.Action { return protocol.ActionPing }

func (ConnectionPingClient) Serialize(w *eodata.Writer) error {
	w.AddString("k")
	return nil
}

func (p *ConnectionPingClient) Deserialize(r *eodata.Reader) error {
	r.GetString()
	return nil
}

// WalkPlayerClient requests one step.
type WalkPlayerClient struct {
	Direction int
	Timestamp int
	X         int
	Y         int
}

func (WalkPlayerClient) Family() protocol.Family { return protocol.FamilyWalk }
func (WalkPlayerClient) Action() protocol.Action { return protocol.ActionPlayer }

func (p WalkPlayerClient) Serialize(w *eodata.Writer) error {
	if err := w.AddChar(p.Direction); err != nil {
		return err
	}
	if err := w.AddThree(p.Timestamp); err != nil {
		return err
	}
	if err := w.AddChar(p.X); err != nil {
		return err
	}
	return w.AddChar(p.Y)
}

func (p *WalkPlayerClient) Deserialize(r *eodata.Reader) error {
	var err error
	if p.Direction, err = r.GetChar(); err != nil {
		return err
	}
	if p.Timestamp, err = r.GetThree(); err != nil {
		return err
	}
	if p.X, err = r.GetChar(); err != nil {
		return err
	}
	p.Y, err = r.GetChar()
	return err
}

// TalkReportClient is a public chat line.
type TalkReportClient struct {
	Message string
}

func (TalkReportClient) Family() protocol.Family { return protocol.FamilyTalk }
func (TalkReportClient) Action() protocol.Action { return protocol.ActionReport }

func (p TalkReportClient) Serialize(w *eodata.Writer) error {
	w.AddString(p.Message)
	return nil
}

func (p *TalkReportClient) Deserialize(r *eodata.Reader) error {
	p.Message = r.GetString()
	return nil
}
