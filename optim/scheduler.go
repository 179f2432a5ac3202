package optim

// Scheduler maps an epoch to a learning rate
type Scheduler interface {
	// LR returns the learning rate for the given epoch, counted from 0
	LR(epoch int) float64

	// Name returns the scheduler name
	Name() string
}

// Constant keeps the base learning rate
type Constant struct {
	Base float64
}

func (s Constant) LR(int) float64 {
	return s.Base
}

func (s Constant) Name() string {
	return "Constant"
}

// LinearDecay decays the learning rate linearly, from Base at epoch 0 to 0 at
// epoch Epochs: Base * (1 - epoch/Epochs).
type LinearDecay struct {
	Base   float64
	Epochs int
}

func (s LinearDecay) LR(epoch int) float64 {
	if s.Epochs <= 0 {
		return s.Base
	}
	return s.Base * (1 - float64(epoch)/float64(s.Epochs))
}

func (s LinearDecay) Name() string {
	return "LinearDecay"
}

// Schedule drives the learning rate of an optimizer, once per epoch
type Schedule struct {
	opt       *Local
	scheduler Scheduler
	epoch     int
}

// NewSchedule attaches scheduler to opt and sets the learning rate of epoch 0
func NewSchedule(opt *Local, scheduler Scheduler) *Schedule {
	s := &Schedule{opt: opt, scheduler: scheduler}
	opt.SetLR(scheduler.LR(0))
	return s
}

// Epoch returns the current epoch of the schedule
func (s *Schedule) Epoch() int {
	return s.epoch
}

// LastLR returns the learning rate in effect for the current epoch
func (s *Schedule) LastLR() float64 {
	return s.opt.LR()
}

// Step moves the schedule to the next epoch
func (s *Schedule) Step() {
	s.epoch++
	s.opt.SetLR(s.scheduler.LR(s.epoch))
}
