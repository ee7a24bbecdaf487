package tasks

// TaskSchedulerInterface runs import tasks on a fixed pool of workers.
//
//	scheduler := NewScheduler(workers, taskTimeout, time.Second)
//	scheduler.Start()
//	scheduler.EnqueueTask(NewImportFeedTask(...))
//	scheduler.Wait()
//	scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	Wait()
	EnqueueTask(task TaskInterface) error
	Failed() []TaskInterface
}
