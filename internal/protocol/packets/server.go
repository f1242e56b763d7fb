package packets

import (
	"github.com/danmuck/eoclient/internal/protocol"
	"github.com/danmuck/eoclient/internal/protocol/eodata"
)

// Init reply codes.
const (
	InitReplyOutOfDate = 1
	InitReplyOK        = 2
	InitReplyBanned    = 3
)

// InitInitServer answers the handshake. On InitReplyOK it carries the
// sequence seed bytes and the connection multiplier.
type InitInitServer struct {
	Result            int
	Seq1              int
	Seq2              int
	Multiplier        int
	PlayerID          int
	ChallengeResponse int
	// Version is set for InitReplyOutOfDate; BanMinutes for InitReplyBanned.
	Version    [3]int
	BanMinutes int
}

func (InitInitServer) Family() protocol.Family { return protocol.FamilyInit }
func (InitInitServer) Action() protocol.Action { return protocol.ActionInit }

func (p InitInitServer) Serialize(w *eodata.Writer) error {
	if err := w.AddChar(p.Result); err != nil {
		return err
	}
	switch p.Result {
	case InitReplyOK:
		for _, v := range []int{p.Seq1, p.Seq2, p.Multiplier} {
			if err := w.AddChar(v); err != nil {
				return err
			}
		}
		if err := w.AddShort(p.PlayerID); err != nil {
			return err
		}
		return w.AddThree(p.ChallengeResponse)
	case InitReplyOutOfDate:
		for _, v := range p.Version {
			if err := w.AddChar(v); err != nil {
				return err
			}
		}
	case InitReplyBanned:
		return w.AddChar(p.BanMinutes)
	}
	return nil
}

func (p *InitInitServer) Deserialize(r *eodata.Reader) error {
	var err error
	if p.Result, err = r.GetChar(); err != nil {
		return err
	}
	switch p.Result {
	case InitReplyOK:
		if p.Seq1, err = r.GetChar(); err != nil {
			return err
		}
		if p.Seq2, err = r.GetChar(); err != nil {
			return err
		}
		if p.Multiplier, err = r.GetChar(); err != nil {
			return err
		}
		if p.PlayerID, err = r.GetShort(); err != nil {
			return err
		}
		p.ChallengeResponse, err = r.GetThree()
		return err
	case InitReplyOutOfDate:
		for i := range p.Version {
			if p.Version[i], err = r.GetChar(); err != nil {
				return err
			}
		}
	case InitReplyBanned:
		p.BanMinutes, err = r.GetChar()
		return err
	}
	return nil
}

// ConnectionPlayerServer is the server ping; it re-seeds the outbound sequence.
type ConnectionPlayerServer struct {
	Seq1 int
	Seq2 int
}

func (ConnectionPlayerServer) Family() protocol.Family { return protocol.FamilyConnection }
func (ConnectionPlayerServer) Action() protocol.Action { return protocol.ActionPlayer }

func (p ConnectionPlayerServer) Serialize(w *eodata.Writer) error {
	if err := w.AddShort(p.Seq1); err != nil {
		return err
	}
	return w.AddChar(p.Seq2)
}

func (p *ConnectionPlayerServer) Deserialize(r *eodata.Reader) error {
	var err error
	if p.Seq1, err = r.GetShort(); err != nil {
		return err
	}
	p.Seq2, err = r.GetChar()
	return err
}

// TalkServerServer is a server-wide announcement.
type TalkServerServer struct {
	Message string
}

func (TalkServerServer) Family() protocol.Family { return protocol.FamilyTalk }
func (TalkServerServer) Action() protocol.Action { return protocol.ActionServer }

func (p TalkServerServer) Serialize(w *eodata.Writer) error {
	w.AddString(p.Message)
	return nil
}

func (p *TalkServerServer) Deserialize(r *eodata.Reader) error {
	p.Message = r.GetString()
	return nil
}

// WarpRequestServer asks the client to accept a map change.
type WarpRequestServer struct {
	MapID     int
	SessionID int
}

func (WarpRequestServer) Family() protocol.Family { return protocol.FamilyWarp }
func (WarpRequestServer) Action() protocol.Action { return protocol.ActionRequest }

func (p WarpRequestServer) Serialize(w *eodata.Writer) error {
	if err := w.AddShort(p.MapID); err != nil {
		return err
	}
	return w.AddShort(p.SessionID)
}

func (p *WarpRequestServer) Deserialize(r *eodata.Reader) error {
	var err error
	if p.MapID, err = r.GetShort(); err != nil {
		return err
	}
	p.SessionID, err = r.GetShort()
	return err
}

// ItemGetServer confirms an item pickup.
type ItemGetServer struct {
	TakenItemIndex int
	ItemID         int
	Amount         int
	Weight         int
	MaxWeight      int
}

func (ItemGetServer) Family() protocol.Family { return protocol.FamilyItem }
func (ItemGetServer) Action() protocol.Action { return protocol.ActionGet }

func (p ItemGetServer) Serialize(w *eodata.Writer) error {
	if err := w.AddShort(p.TakenItemIndex); err != nil {
		return err
	}
	if err := w.AddShort(p.ItemID); err != nil {
		return err
	}
	if err := w.AddThree(p.Amount); err != nil {
		return err
	}
	if err := w.AddChar(p.Weight); err != nil {
		return err
	}
	return w.AddChar(p.MaxWeight)
}

func (p *ItemGetServer) Deserialize(r *eodata.Reader) error {
	var err error
	if p.TakenItemIndex, err = r.GetShort(); err != nil {
		return err
	}
	if p.ItemID, err = r.GetShort(); err != nil {
		return err
	}
	if p.Amount, err = r.GetThree(); err != nil {
		return err
	}
	if p.Weight, err = r.GetChar(); err != nil {
		return err
	}
	p.MaxWeight, err = r.GetChar()
	return err
}
