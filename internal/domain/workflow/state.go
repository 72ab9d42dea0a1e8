package workflow

// Status is the constraint for the status families a machine can drive
type Status interface {
	~string
	IsValid() bool
	IsTerminal() bool
}
