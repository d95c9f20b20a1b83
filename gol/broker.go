package gol

import (
	"context"
	"errors"
	"log"
	"net"
	"net/rpc"
)

// Broker exposes a Hub over net/rpc so that workers in separate processes
// can meet. It holds no grid state; every cell stays with its owner.
type Broker struct {
	hub *Hub
}

// NewBroker wraps h.
func NewBroker(h *Hub) *Broker {
	return &Broker{hub: h}
}

func (b *Broker) Info(_ InfoArgs, reply *InfoReply) error {
	reply.Size = b.hub.Size()
	return nil
}

// AllGather blocks until every rank has joined the round.
func (b *Broker) AllGather(args GatherArgs, reply *GatherReply) error {
	msgs, err := b.hub.AllGather(context.Background(), args.Rank, args.Msg)
	if err != nil {
		return err
	}
	reply.Msgs = msgs
	return nil
}

func (b *Broker) Send(args SendArgs, reply *SendReply) error {
	if err := b.hub.Send(context.Background(), args.From, args.To, args.Tag, args.Msg); err != nil {
		return err
	}
	reply.Ok = true
	return nil
}

func (b *Broker) Recv(args RecvArgs, reply *RecvReply) error {
	m, err := b.hub.Recv(context.Background(), args.From, args.To, args.Tag)
	if err != nil {
		return err
	}
	reply.Msg = m
	return nil
}

// Serve accepts connections on l until ctx ends, then closes the listener
// and the hub.
func (b *Broker) Serve(ctx context.Context, l net.Listener, logger *log.Logger) error {
	srv := rpc.NewServer()
	if err := srv.RegisterName("Broker", b); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		l.Close()
		b.hub.Close()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if logger != nil {
				logger.Printf("[Broker] Accept error: %v", err)
			}
			continue
		}
		go srv.ServeConn(conn)
	}
}
