package gol

// rpc

type InfoArgs struct{ Rank int }
type InfoReply struct{ Size int }

type GatherArgs struct {
	Rank int
	Msg  Message
}
type GatherReply struct{ Msgs []Message }

type SendArgs struct {
	From int
	To   int
	Tag  Tag
	Msg  Message
}
type SendReply struct{ Ok bool }

type RecvArgs struct {
	From int
	To   int
	Tag  Tag
}
type RecvReply struct{ Msg Message }
