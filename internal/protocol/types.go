package protocol

import (
	"fmt"

	"github.com/danmuck/eoclient/internal/protocol/eodata"
)

// Family is the coarse category of a packet.
type Family uint8

// Action is the verb within a family.
type Action uint8

const (
	FamilyConnection Family = 1
	FamilyAccount    Family = 2
	FamilyCharacter  Family = 3
	FamilyLogin      Family = 4
	FamilyWelcome    Family = 5
	FamilyWalk       Family = 6
	FamilyFace       Family = 7
	FamilyItem       Family = 14
	FamilyTalk       Family = 18
	FamilyWarp       Family = 19
	FamilyParty      Family = 28
	FamilyNpc        Family = 33
	FamilyInit       Family = 255
)

const (
	ActionRequest     Action = 1
	ActionAccept      Action = 2
	ActionReply       Action = 3
	ActionRemove      Action = 4
	ActionAgree       Action = 5
	ActionCreate      Action = 6
	ActionAdd         Action = 7
	ActionPlayer      Action = 8
	ActionTake        Action = 9
	ActionUse         Action = 10
	ActionOpen        Action = 13
	ActionClose       Action = 14
	ActionMessage     Action = 15
	ActionSpec        Action = 16
	ActionList        Action = 18
	ActionReport      Action = 21
	ActionServer      Action = 23
	ActionGet         Action = 27
	ActionTargetGroup Action = 33
	ActionDialog      Action = 34
	ActionPing        Action = 240
	ActionPong        Action = 241
	ActionInit        Action = 255
)

var familyNames = map[Family]string{
	FamilyConnection: "Connection",
	FamilyAccount:    "Account",
	FamilyCharacter:  "Character",
	FamilyLogin:      "Login",
	FamilyWelcome:    "Welcome",
	FamilyWalk:       "Walk",
	FamilyFace:       "Face",
	FamilyItem:       "Item",
	FamilyTalk:       "Talk",
	FamilyWarp:       "Warp",
	FamilyParty:      "Party",
	FamilyNpc:        "Npc",
	FamilyInit:       "Init",
}

var actionNames = map[Action]string{
	ActionRequest:     "Request",
	ActionAccept:      "Accept",
	ActionReply:       "Reply",
	ActionRemove:      "Remove",
	ActionAgree:       "Agree",
	ActionCreate:      "Create",
	ActionAdd:         "Add",
	ActionPlayer:      "Player",
	ActionTake:        "Take",
	ActionUse:         "Use",
	ActionOpen:        "Open",
	ActionClose:       "Close",
	ActionMessage:     "Message",
	ActionSpec:        "Spec",
	ActionList:        "List",
	ActionReport:      "Report",
	ActionServer:      "Server",
	ActionGet:         "Get",
	ActionTargetGroup: "TargetGroup",
	ActionDialog:      "Dialog",
	ActionPing:        "Ping",
	ActionPong:        "Pong",
	ActionInit:        "Init",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// HeaderLen is the (action, family) prefix every envelope starts with.
const HeaderLen = 2

// PacketID keys registries and handler tables.
type PacketID struct {
	Family Family
	Action Action
}

// ID builds a PacketID.
func ID(f Family, a Action) PacketID {
	return PacketID{Family: f, Action: a}
}

// InitID identifies the connection-init packet, which always travels unobfuscated.
var InitID = PacketID{Family: FamilyInit, Action: ActionInit}

func (id PacketID) String() string {
	return id.Family.String() + "_" + id.Action.String()
}

// IsInit reports whether id is the connection-init packet.
func (id PacketID) IsInit() bool {
	return id == InitID
}

// Packet is one protocol message. Implementations are immutable once built.
type Packet interface {
	Family() Family
	Action() Action
	// Serialize writes the packet fields, excluding the envelope header.
	Serialize(w *eodata.Writer) error
}

// Deserializer is implemented by pointer packet types the schema tables construct.
type Deserializer interface {
	Packet
	Deserialize(r *eodata.Reader) error
}

// IDOf returns the PacketID of p.
func IDOf(p Packet) PacketID {
	return PacketID{Family: p.Family(), Action: p.Action()}
}

// PeekID reads the (action, family) header without consuming data.
func PeekID(data []byte) (PacketID, bool) {
	if len(data) < HeaderLen {
		return PacketID{}, false
	}
	return PacketID{Action: Action(data[0]), Family: Family(data[1])}, true
}
