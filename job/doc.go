// Package job defines the job contract, the handle that carries a
// submitted job through the scheduler, and the group primitive used for
// fan-out completion tracking.
//
// # Job
//
// A [Job] is any value with a single Execute capability. The scheduler
// treats the payload as opaque: it is not retried, logged, or inspected.
// Plain functions adapt via [Func]:
//
//	h, err := sched.Submit(ctx, job.Func(func(ctx context.Context) error {
//	    return resize(ctx, img)
//	}))
//
// # Handle
//
// A [Handle] pairs the opaque job with the completion metadata the
// scheduler needs: identity, submit time, optional execution timeout,
// and an optional back-reference to a [Group] signalled on completion.
// A handle travels inbound queue → deque → execution and is observed by
// exactly one worker. After the scheduler's Finish runs, [Handle.Done]
// is closed and [Handle.Err] reports the execution outcome.
//
// # Group
//
// A [Group] tracks a fixed-size batch of jobs (parallel-for style
// fan-out). Create it with the expected job count, attach it to each
// submission with [WithGroup], and block on [Group.Wait]:
//
//	g := job.NewGroup(len(files))
//	for _, f := range files {
//	    sched.Submit(ctx, compress(f), job.WithGroup(g))
//	}
//	err := g.Wait(ctx)
package job
