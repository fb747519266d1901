// Package msgs defines the messages published by the controller.
package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/fancylights/pkg/wire"
)

// Status is a snapshot of the controller state.
type Status struct {
	LampsOn         bool   `protobuf:"varint,1,opt,name=lamps_on,proto3" json:"lamps_on,omitempty"`
	StripOn         bool   `protobuf:"varint,2,opt,name=strip_on,proto3" json:"strip_on,omitempty"`
	Intensity       uint32 `protobuf:"varint,3,opt,name=intensity,proto3" json:"intensity,omitempty"`
	DimmedIntensity uint32 `protobuf:"varint,4,opt,name=dimmed_intensity,proto3" json:"dimmed_intensity,omitempty"`
	ProjectorMode   string `protobuf:"bytes,5,opt,name=projector_mode,proto3" json:"projector_mode,omitempty"`
	RgbMode         string `protobuf:"bytes,6,opt,name=rgb_mode,proto3" json:"rgb_mode,omitempty"`
	Hue             uint32 `protobuf:"varint,7,opt,name=hue,proto3" json:"hue,omitempty"`
	Saturation      uint32 `protobuf:"varint,8,opt,name=saturation,proto3" json:"saturation,omitempty"`
	Value           uint32 `protobuf:"varint,9,opt,name=value,proto3" json:"value,omitempty"`
	Powered         bool   `protobuf:"varint,10,opt,name=powered,proto3" json:"powered,omitempty"`
	ProjectorLocked bool   `protobuf:"varint,11,opt,name=projector_locked,proto3" json:"projector_locked,omitempty"`
	Timestamp       int64  `protobuf:"varint,12,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *Status) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Status) Reset() { *m = Status{} }

// String implements proto.Message.
func (m *Status) String() string { return proto.CompactTextString(m) }

// StatusFrom builds a snapshot from a status payload.
func StatusFrom(st wire.Status, at time.Time) *Status {
	return &Status{
		LampsOn:         st.LightMode.Lamps(),
		StripOn:         st.LightMode.Strip(),
		Intensity:       uint32(st.Intensity),
		DimmedIntensity: uint32(st.DimmedIntensity),
		ProjectorMode:   st.ProjectorMode.String(),
		RgbMode:         st.RGBMode.String(),
		Hue:             uint32(st.Hue),
		Saturation:      uint32(st.Saturation),
		Value:           uint32(st.Value),
		Timestamp:       at.UnixNano() / int64(time.Millisecond),
	}
}

// Wire converts the snapshot back to a status payload.
func (m *Status) Wire() (st wire.Status, err error) {
	st.LightMode = wire.MakeLightMode(m.LampsOn, m.StripOn)
	st.Intensity = byte(m.Intensity)
	st.DimmedIntensity = byte(m.DimmedIntensity)
	if st.ProjectorMode, err = wire.ParseProjectorMode(m.ProjectorMode); err != nil {
		return
	}
	if st.RGBMode, err = wire.ParseRGBMode(m.RgbMode); err != nil {
		return
	}
	st.Hue, st.Saturation, st.Value = byte(m.Hue), byte(m.Saturation), byte(m.Value)
	return
}

// Time returns the time the snapshot was taken.
func (m *Status) Time() time.Time {
	return time.Unix(0, m.Timestamp*int64(time.Millisecond))
}

// Encode serializes the snapshot.
func (m *Status) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeStatus decodes a serialized snapshot.
func DecodeStatus(data []byte) (*Status, error) {
	var m Status
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
