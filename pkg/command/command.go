// Package command parses and dispatches the 4-byte tagged commands carried
// in UDP payloads by the host loader.
package command

import (
	"encoding/binary"
)

var be = binary.BigEndian

// ID identifies a command. The set is closed: every payload maps onto
// exactly one ID, Unknown included.
type ID int

const (
	Unknown ID = iota
	PartBin
	DoneBin
	RetVal
	LoadBin
	Maple
	PMCR
	SendBinQ
	SendBin
	Execute
	Version
	Reboot
)

// TagLen is the length of the identifier at the start of every command.
const TagLen = 4

var tags = [...]string{
	Unknown:  "",
	PartBin:  "PBIN",
	DoneBin:  "DBIN",
	RetVal:   "RETV",
	LoadBin:  "LBIN",
	Maple:    "MAPL",
	PMCR:     "PMCR",
	SendBinQ: "SBIQ",
	SendBin:  "SBIN",
	Execute:  "EXEC",
	Version:  "VERS",
	Reboot:   "RBOT",
}

// Tag returns the wire identifier for id, or "" for Unknown.
func (id ID) Tag() string {
	if id < 0 || int(id) >= len(tags) {
		return ""
	}
	return tags[id]
}

func (id ID) String() string {
	if t := id.Tag(); t != "" {
		return t
	}
	return "unknown"
}

// ParseID maps the leading identifier of b onto an ID. Cases are ordered by
// expected frequency; tags are distinct so at most one can match.
func ParseID(b []byte) ID {
	if len(b) < TagLen {
		return Unknown
	}

	switch string(b[:TagLen]) {
	case "PBIN":
		return PartBin
	case "DBIN":
		return DoneBin
	case "RETV":
		return RetVal
	case "LBIN":
		return LoadBin
	case "MAPL":
		return Maple
	case "PMCR":
		return PMCR
	case "SBIQ":
		return SendBinQ
	case "SBIN":
		return SendBin
	case "EXEC":
		return Execute
	case "VERS":
		return Version
	case "RBOT":
		return Reboot
	}

	return Unknown
}

// HeaderLen covers the tag and the address and size words that most
// commands carry.
const HeaderLen = TagLen + 8

// Command is a view over a UDP payload holding a command.
type Command struct {
	data []byte
}

func New(b []byte) Command {
	return Command{data: b}
}

func (c Command) ID() ID {
	return ParseID(c.data)
}

func (c Command) Bytes() []byte {
	return c.data
}

// Payload is everything after the tag.
func (c Command) Payload() []byte {
	if len(c.data) < TagLen {
		return nil
	}
	return c.data[TagLen:]
}

// Address returns the big-endian address word, or 0 if the command is too
// short to carry one.
func (c Command) Address() uint32 {
	if len(c.data) < TagLen+4 {
		return 0
	}
	return be.Uint32(c.data[4:8])
}

// Size returns the big-endian size word, or 0 if absent.
func (c Command) Size() uint32 {
	if len(c.data) < HeaderLen {
		return 0
	}
	return be.Uint32(c.data[8:12])
}

// Data is everything after the address and size words.
func (c Command) Data() []byte {
	if len(c.data) < HeaderLen {
		return nil
	}
	return c.data[HeaderLen:]
}
