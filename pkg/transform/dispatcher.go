package transform

import (
	"context"
	"fmt"

	"github.com/TritonDataCenter/mahi-sub003/pkg/changelog"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"go.uber.org/zap"
)

// precedence lists every known objectclass from most to least specific.
// sdcaccountuser must win over sdcperson because a sub-user entry carries
// both classes (spec.md §4.3.2, "combined sdcaccountuser+sdcperson");
// everything else here is mutually exclusive in practice, but the ordering
// still pins down a deterministic choice if an entry is ever tagged with
// more than one.
var precedence = []struct {
	objectClass string
	handler     Handler
}{
	{"sdcaccountuser", SDCAccountUser{}},
	{"sdcaccountrole", SDCAccountRole{}},
	{"sdcaccountpolicy", SDCAccountPolicy{}},
	{"sdcaccountgroup", SDCAccountGroup{}},
	{"sdckey", SDCKey{}},
	{"accesskey", AccessKey{}},
	{"groupofuniquenames", GroupOfUniqueNames{}},
	{"sdcperson", SDCPerson{}},
}

// Dispatcher selects a Handler by objectclass and invokes it by changetype
// (spec.md §4.4).
type Dispatcher struct {
	Parser Parser
	Log    *zap.SugaredLogger
}

// NewDispatcher builds a Dispatcher with the given rule parser and logger.
func NewDispatcher(parser Parser, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{Parser: parser, Log: log}
}

// Dispatch routes one changelog entry to its handler's Add/Modify/Delete
// method. An entry whose objectclass list matches nothing known is logged
// and skipped (spec.md §7); an entry with an unrecognized changetype is a
// fatal error, since that indicates a changelog shape this module was never
// taught to handle.
func (d *Dispatcher) Dispatch(ctx context.Context, entry *changelog.Entry, b *kv.Batch) error {
	handler := d.resolve(entry)
	if handler == nil {
		d.Log.Warnw("dispatcher: no handler for objectclass, skipping entry",
			"changenumber", entry.ChangeNumber, "objectclass", entry.ObjectClass)
		return nil
	}

	switch entry.ChangeType {
	case changelog.Add:
		return handler.Add(ctx, entry, b, d.Parser, d.Log)
	case changelog.Modify:
		return handler.Modify(ctx, entry, b, d.Parser, d.Log)
	case changelog.Delete:
		return handler.Delete(ctx, entry, b, d.Parser, d.Log)
	default:
		return fmt.Errorf("dispatcher: unrecognized changetype %q on changenumber %s", entry.ChangeType, entry.ChangeNumber)
	}
}

func (d *Dispatcher) resolve(entry *changelog.Entry) Handler {
	for _, p := range precedence {
		if entry.HasObjectClass(p.objectClass) {
			return p.handler
		}
	}
	return nil
}
