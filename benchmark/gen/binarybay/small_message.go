// Package binarybaygen holds the Go source a binarybay schema for the
// benchmark fixtures would produce via Schema.Generate; see ../schema.go for
// the builder code describing each type. It is checked in rather than
// produced by a go:generate step so the benchmark has no external codegen
// dependency at test time.
package binarybaygen

import "github.com/blockberries/binarybay/pkg/bbrt"

// SmallMessage is the generated form of the schema built by
// smallMessageSchema in ../schema.go: a 64-bit id, a length-prefixed UTF-8
// name, and a 1-bit bool.
type SmallMessage struct {
	Id     int64
	Name   string
	Active bool
}

func ReadSmallMessage(r bbrt.BufReader) (SmallMessage, error) {
	idSeg, err := bbrt.ReadExact(r, 8)
	if err != nil {
		return SmallMessage{}, err
	}
	idRaw, err := bbrt.DecodeInt(idSeg, 0, 0, 64, bbrt.LittleEndian, true)
	if err != nil {
		return SmallMessage{}, err
	}
	id := int64(idRaw)

	nameLenSeg, err := bbrt.ReadExact(r, 1)
	if err != nil {
		return SmallMessage{}, err
	}
	nameLenRaw, err := bbrt.DecodeInt(nameLenSeg, 0, 0, 8, bbrt.LittleEndian, false)
	if err != nil {
		return SmallMessage{}, err
	}
	nameLen := uint8(nameLenRaw)

	nameRaw, err := bbrt.ReadExact(r, int(nameLen))
	if err != nil {
		return SmallMessage{}, err
	}
	name := string(nameRaw)

	activeSeg, err := bbrt.ReadExact(r, 1)
	if err != nil {
		return SmallMessage{}, err
	}
	activeRaw, err := bbrt.DecodeInt(activeSeg, 0, 0, 8, bbrt.LittleEndian, false)
	if err != nil {
		return SmallMessage{}, err
	}
	active := activeRaw != 0

	return SmallMessage{
		Id:     id,
		Name:   name,
		Active: active,
	}, nil
}

func (v SmallMessage) Write(w bbrt.Writer) error {
	idSeg := make([]byte, 8)
	if err := bbrt.EncodeInt(idSeg, 0, 0, 64, bbrt.LittleEndian, true, v.Id); err != nil {
		return err
	}
	if err := bbrt.WriteAll(w, idSeg); err != nil {
		return err
	}

	nameLenSeg := make([]byte, 1)
	if err := bbrt.EncodeInt(nameLenSeg, 0, 0, 8, bbrt.LittleEndian, false, int64(len(v.Name))); err != nil {
		return err
	}
	if err := bbrt.WriteAll(w, nameLenSeg); err != nil {
		return err
	}
	if err := bbrt.WriteAll(w, []byte(v.Name)); err != nil {
		return err
	}

	activeSeg := make([]byte, 1)
	if err := bbrt.EncodeInt(activeSeg, 0, 0, 8, bbrt.LittleEndian, false, boolToUint(v.Active)); err != nil {
		return err
	}
	return bbrt.WriteAll(w, activeSeg)
}

func boolToUint(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
