// Package sequence hands out increasing int64 ids used to order suggestion cycles.
package sequence

import (
	"hash/fnv"
	"os"

	bwsnowflake "github.com/bwmarrin/snowflake"
)

type Generator interface {
	Next() int64
}

type Snowflake struct {
	node *bwsnowflake.Node
}

// New uses node id (0-1023). A negative id derives one from the hostname.
func New(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 {
		nodeID = hostNode()
	}
	node, err := bwsnowflake.NewNode(nodeID & 0x3FF)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) Next() int64 {
	return s.node.Generate().Int64()
}

func hostNode() int64 {
	host, _ := os.Hostname()
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	return int64(h.Sum32()) & 0x3FF
}
