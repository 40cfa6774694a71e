package juice

// ComposeAck 依据设备上报组装确认报文：
// 离线电流取设备的 current_default，即时电流取 current_available，
// 计数器用设备上报的 sequence 重新播种后推进，版本号原样带回。
func ComposeAck(d *DeviceMessage, seq *Sequence) *ServerMessage {
	m := &ServerMessage{}
	m.OfflineAmperage = intOrZero(d.CurrentDefault)
	m.InstantAmperage = intOrZero(d.CurrentAvailable)
	m.Counter, m.Command = seq.Advance(d.Sequence)
	if d.Version != nil {
		v := *d.Version
		m.Version = &v
	}
	return m
}

// ComposeChange 在确认报文之后复用同一条出站报文下发电流变更：
// 离线/即时电流一并改为新值，计数器不播种、从确认报文用过的值继续，
// 并清掉缓存文本强制按新字段重建。
func ComposeChange(m *ServerMessage, seq *Sequence, value int) {
	m.OfflineAmperage = value
	m.InstantAmperage = value
	m.Counter, m.Command = seq.Advance(nil)
	m.ClearPayload()
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
