package catalog

import (
	"context"

	"github.com/scicat/catalog/internal/storage"
	"github.com/scicat/catalog/internal/types"
)

// CreateDIDSample implements create_did_sample (§6): materialize a new
// collection containing the first nbFiles FILE members of an existing
// one, reusing the dataset sub-routine's linking path (§4.3.2) so the
// new collection's associations carry the same consistency checks and
// aggregate bookkeeping as a normal attach.
func (c *Catalog) CreateDIDSample(ctx context.Context, tx storage.Transaction, input, output types.DIDKey, account string, nbFiles int) error {
	ctx, span := tracer.Start(ctx, "catalog.create_did_sample")
	defer span.End()

	in, err := tx.GetDID(ctx, input.Scope, input.Name)
	if err != nil {
		return err
	}
	if in.Type != types.Dataset {
		return types.NewCatalogError("create_did_sample", input.Scope, input.Name, types.ErrUnsupportedOperation)
	}

	members, err := tx.ListChildren(ctx, input)
	if err != nil {
		return err
	}
	if nbFiles < len(members) {
		members = members[:nbFiles]
	}

	if _, err := tx.GetDID(ctx, output.Scope, output.Name); isErr(err, types.ErrDidNotFound) {
		if err := c.AddDIDs(ctx, tx, []NewDIDRequest{{Scope: output.Scope, Name: output.Name, Type: types.Dataset}}, account); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	children := make([]ChildAttachment, 0, len(members))
	for _, m := range members {
		children = append(children, ChildAttachment{
			Scope: m.ChildScope, Name: m.ChildName, Bytes: m.Bytes, Adler32: m.Adler32, MD5: m.MD5,
		})
	}
	if len(children) == 0 {
		return nil
	}
	return c.AttachDIDsToDIDs(ctx, tx, []Attachment{{Parent: output, Children: children}}, account, true)
}
