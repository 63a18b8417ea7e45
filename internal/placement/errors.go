package placement

import "errors"

// Structural errors surface when a Configuration violates the invariants of
// the topology it places. They are programmer errors: a caller constructed
// (or a move produced) a placement that cannot correspond to any real
// cluster state, and construction refuses to proceed silently.
var (
	ErrUnknownDomU            = errors.New("placement references a domU not present in the cluster")
	ErrMissingPlacement       = errors.New("cluster domU has no placement entry")
	ErrDuplicatePlacement     = errors.New("domU has more than one placement entry")
	ErrUnknownDom0            = errors.New("placement references a dom0 not present in the cluster")
	ErrUnknownDom0Disk        = errors.New("placement references a dom0 disk not present on its host")
	ErrUnknownDomUDisk        = errors.New("placement disk set does not match the domU's declared disks")
	ErrPrimaryEqualsSecondary = errors.New("primary and secondary dom0 are the same host")
	ErrMissingSecondary       = errors.New("domU reserves secondary ram but has no secondary dom0")
	ErrUnexpectedSecondary    = errors.New("domU has no secondary dom0 but carries secondary physical volumes")
	ErrExtentsMismatch        = errors.New("physical volume extents do not sum to the disk's total extents")
	ErrCrossHostVolume        = errors.New("physical volume does not reside on the role's assigned dom0")
)
