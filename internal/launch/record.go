package launch

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	langFieldSize    = 28
	ParamsRecordSize = 4 + 6*4 + langFieldSize
)

const (
	flagNoTab = 1 << iota
	flagNoPlugin
	flagReadOnly
	flagNoSession
	flagPreLaunch
	flagLoadingTime
	flagLineValid
	flagColumnValid
)

// record is the fixed layout sent to a running instance.
type record struct {
	Flags    uint8
	PointXY  uint8 // bit 0: x valid, bit 1: y valid
	_        [2]byte
	Line     int32
	Column   int32
	PointX   int32
	PointY   int32
	Reserved [2]int32
	Lang     [langFieldSize]byte
}

var (
	ErrLangTooLong      = errors.New("language name does not fit the params record")
	ErrNumberOutOfRange = errors.New("number does not fit the params record")
)

func fitsInt32(n int) bool { return n >= math.MinInt32 && n <= math.MaxInt32 }

func (p CmdLineParams) MarshalBinary() ([]byte, error) {
	if len(p.LangType) > langFieldSize {
		return nil, fmt.Errorf("%w: %q", ErrLangTooLong, p.LangType)
	}
	for _, n := range []int{p.Line2Go, p.Column2Go, p.PointX, p.PointY} {
		if !fitsInt32(n) { return nil, fmt.Errorf("%w: %d", ErrNumberOutOfRange, n) }
	}

	r := record{
		Line:   int32(p.Line2Go),
		Column: int32(p.Column2Go),
		PointX: int32(p.PointX),
		PointY: int32(p.PointY),
	}
	bits := []bool{p.IsNoTab, p.IsNoPlugin, p.IsReadOnly, p.IsNoSession, p.IsPreLaunch,
		p.ShowLoadingTime, p.IsLine2GoValid, p.IsColumn2GoValid}
	for i, set := range bits {
		if set { r.Flags |= 1 << i }
	}
	if p.IsPointXValid { r.PointXY |= 1 }
	if p.IsPointYValid { r.PointXY |= 2 }
	copy(r.Lang[:], p.LangType)

	buf := bytes.NewBuffer(make([]byte, 0, ParamsRecordSize))
	if err := binary.Write(buf, binary.LittleEndian, &r); err != nil { return nil, err }
	return buf.Bytes(), nil
}

func (p *CmdLineParams) UnmarshalBinary(data []byte) error {
	if len(data) != ParamsRecordSize {
		return fmt.Errorf("params record: got %d bytes, want %d", len(data), ParamsRecordSize)
	}

	var r record
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &r); err != nil { return err }

	*p = CmdLineParams{
		IsNoTab:          r.Flags&flagNoTab != 0,
		IsNoPlugin:       r.Flags&flagNoPlugin != 0,
		IsReadOnly:       r.Flags&flagReadOnly != 0,
		IsNoSession:      r.Flags&flagNoSession != 0,
		IsPreLaunch:      r.Flags&flagPreLaunch != 0,
		ShowLoadingTime:  r.Flags&flagLoadingTime != 0,
		Line2Go:          int(r.Line),
		IsLine2GoValid:   r.Flags&flagLineValid != 0,
		Column2Go:        int(r.Column),
		IsColumn2GoValid: r.Flags&flagColumnValid != 0,
		PointX:           int(r.PointX),
		IsPointXValid:    r.PointXY&1 != 0,
		PointY:           int(r.PointY),
		IsPointYValid:    r.PointXY&2 != 0,
		LangType:         string(bytes.TrimRight(r.Lang[:], "\x00")),
	}
	return nil
}
