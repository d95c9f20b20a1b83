package gol

import (
	"context"
	"fmt"
	"net/rpc"
)

// RemoteComm is a rank handle on a Broker reached over TCP.
type RemoteComm struct {
	client *rpc.Client
	rank   int
	size   int
}

// DialBroker connects rank to the broker at addr and learns the group size.
func DialBroker(addr string, rank int) (*RemoteComm, error) {
	client, err := rpc.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial broker %s: %v", ErrComm, addr, err)
	}
	var info InfoReply
	if err := client.Call("Broker.Info", InfoArgs{Rank: rank}, &info); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: broker info: %v", ErrComm, err)
	}
	if rank < 0 || rank >= info.Size {
		client.Close()
		return nil, fmt.Errorf("%w: rank %d outside group of %d", ErrConfig, rank, info.Size)
	}
	return &RemoteComm{client: client, rank: rank, size: info.Size}, nil
}

func (c *RemoteComm) Close() error { return c.client.Close() }

func (c *RemoteComm) Rank() int { return c.rank }
func (c *RemoteComm) Size() int { return c.size }

func (c *RemoteComm) AllGather(ctx context.Context, m Message) ([]Message, error) {
	var reply GatherReply
	if err := c.call(ctx, "Broker.AllGather", GatherArgs{Rank: c.rank, Msg: m}, &reply); err != nil {
		return nil, err
	}
	if len(reply.Msgs) != c.size {
		return nil, fmt.Errorf("%w: all-gather returned %d of %d messages", ErrComm, len(reply.Msgs), c.size)
	}
	return reply.Msgs, nil
}

func (c *RemoteComm) Send(ctx context.Context, to int, tag Tag, m Message) error {
	var reply SendReply
	return c.call(ctx, "Broker.Send", SendArgs{From: c.rank, To: to, Tag: tag, Msg: m}, &reply)
}

func (c *RemoteComm) Recv(ctx context.Context, from int, tag Tag) (Message, error) {
	var reply RecvReply
	if err := c.call(ctx, "Broker.Recv", RecvArgs{From: from, To: c.rank, Tag: tag}, &reply); err != nil {
		return Message{}, err
	}
	return reply.Msg, nil
}

func (c *RemoteComm) call(ctx context.Context, method string, args, reply any) error {
	call := c.client.Go(method, args, reply, make(chan *rpc.Call, 1))
	select {
	case <-call.Done:
		if call.Error != nil {
			return fmt.Errorf("%w: %s: %v", ErrComm, method, call.Error)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %v", ErrComm, method, ctx.Err())
	}
}
