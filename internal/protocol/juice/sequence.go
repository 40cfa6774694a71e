package juice

// cmdSeq 实测 Enel 云服务下发的 command 轮转表。
// 疑似一组标志位（6=0000_0110 242=1111_0010 8=0000_1000 244=1111_0100），
// 具体含义未知；设备侧兼容性依赖逐位一致，这里按抓包顺序原样复刻，
// 不做任何"清理"或重新解释。
var cmdSeq = [4]int{6, 242, 8, 244}

// Sequence 出站计数器，取值范围 [1,999]，超过 999 回绕到 1。
// 归属当前正在处理的一次交换，交换结束即丢弃。
type Sequence struct {
	Counter int
}

// Advance 推进计数器并返回配对的 command 值。
// seed 非 nil 时先用设备上报的序号重置计数器再加一；
// 为 nil 时从上一次的计数器继续。
func (s *Sequence) Advance(seed *int) (counter, command int) {
	if seed != nil {
		s.Counter = *seed
	}
	s.Counter++
	if s.Counter > 999 {
		s.Counter = 1
	}
	return s.Counter, cmdSeq[s.Counter%4]
}
