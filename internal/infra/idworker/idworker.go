// Package idworker hands out snowflake ids for artifacts.
package idworker

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

type Worker struct {
	node *snowflake.Node
}

func New(nodeID int64) (*Worker, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Worker{node: node}, nil
}

// NextID returns a new id rendered as a decimal string.
func (w *Worker) NextID() string {
	return w.node.Generate().String()
}
