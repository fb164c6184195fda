package catalog

import "errors"

func isErr(err error, target error) bool { return errors.Is(err, target) }
