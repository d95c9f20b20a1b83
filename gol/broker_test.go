package gol

import (
	"context"
	"errors"
	"net"
	"testing"

	"golang.org/x/sync/errgroup"
)

func startBroker(t *testing.T, size int) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewBroker(NewHub(size)).Serve(ctx, l, nil) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("serve: %v", err)
		}
	})
	return l.Addr().String()
}

func TestRemoteRunMatchesLocal(t *testing.T) {
	for _, proto := range []Protocol{Halo, Collective} {
		t.Run(proto.String(), func(t *testing.T) {
			p := Params{Rows: 6, Cols: 6, Workers: 3, Generations: 2, Seeds: []int64{21, 22, 23}}
			want, err := RunLocal(context.Background(), p, Options{})
			if err != nil {
				t.Fatal(err)
			}

			addr := startBroker(t, 3)
			results := make([]Result, 3)
			g, ctx := errgroup.WithContext(context.Background())
			for rank := 0; rank < 3; rank++ {
				rank := rank
				g.Go(func() error {
					comm, err := DialBroker(addr, rank)
					if err != nil {
						return err
					}
					defer comm.Close()
					w, err := NewWorker(comm, p, Options{Protocol: proto})
					if err != nil {
						return err
					}
					results[rank], err = w.Run(ctx)
					return err
				})
			}
			if err := g.Wait(); err != nil {
				t.Fatal(err)
			}
			if results[0].Final == nil || !results[0].Final.Equal(*want.Final) {
				t.Fatal("remote run diverged from in-process run")
			}
			if results[1].Final != nil {
				t.Error("non-coordinator rank holds a snapshot")
			}
		})
	}
}

func TestDialBrokerRejectsRank(t *testing.T) {
	addr := startBroker(t, 2)
	if _, err := DialBroker(addr, 2); !errors.Is(err, ErrConfig) {
		t.Fatalf("got %v, want ErrConfig", err)
	}
}

func TestDialBrokerUnreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()
	if _, err := DialBroker(addr, 0); !errors.Is(err, ErrComm) {
		t.Fatalf("got %v, want ErrComm", err)
	}
}
