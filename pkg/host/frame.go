// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Mike Tahani

package host

import (
	"fmt"

	"github.com/miketahani/sniffy/pkg/dot11"
	"github.com/miketahani/sniffy/pkg/wire"
)

// Frame is a captured 802.11 frame as delivered to the host: the radio's
// capture metadata plus the parsed frame body.
type Frame struct {
	Meta wire.FrameMeta
	*dot11.Frame
}

// parseFrameEvent splits a frame event payload into metadata and frame body.
// A declared frame length larger than the bytes actually present means the
// event was corrupted in transit and is rejected.
func parseFrameEvent(payload []byte) (Frame, error) {
	meta, err := wire.ParseMeta(payload)
	if err != nil {
		return Frame{}, err
	}
	body := payload[wire.MetaSize:]
	if int(meta.FrameLen) > len(body) {
		return Frame{}, fmt.Errorf("host: frame event declares %d bytes, carries %d", meta.FrameLen, len(body))
	}
	return Frame{
		Meta:  meta,
		Frame: dot11.NewFrame(body[:meta.FrameLen]),
	}, nil
}

// String summarizes the frame for log and console output.
func (f Frame) String() string {
	return fmt.Sprintf("ch=%-3d rssi=%-4d seq=%-5d %s", f.Meta.Channel, f.Meta.RSSI, f.Meta.SeqNum, f.Frame.String())
}
