package signal

import "github.com/hdlgo/hdlgo/pkg/bitvec"

func newTestVec(value int64, width int) (*bitvec.BitVec, error) {
	return bitvec.NewWidth(value, width)
}
