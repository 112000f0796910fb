// Package cron schedules recurring job submissions.
//
// Entries pair a cron expression (standard 5-field or descriptors like
// "@every 30s") with a job. A tick loop checks for due entries and
// submits them through the scheduler like any other job, so recurring
// work flows through the same inbound queue, deque, and stealing
// machinery as one-shot submissions.
//
//	crons := sched.Crons()
//	crons.Add("compact", "@every 5m", job.Func(compact))
package cron
