package naming

import (
	"errors"
	"strings"
)

// ---------------------------------------------------------------------------
// Renamer: bidirectional class name translation
// ---------------------------------------------------------------------------

// NameSet is a list of class names together with the form they are given in.
// Names may use either separator; they are normalized at construction.
type NameSet struct {
	Names    []string
	Category NameCategory
}

// Option customizes a Renamer.
type Option func(*Renamer)

// WithLibrary replaces the runtime-library class set.
func WithLibrary(lib ClassLibrary) Option {
	return func(r *Renamer) { r.library = lib }
}

// WithArrayMapper replaces the array descriptor collaborator.
func WithArrayMapper(m ArrayMapper) Option {
	return func(r *Renamer) { r.arrays = m }
}

// Renamer translates class names between their pre-rename and post-rename
// forms. It holds no per-call state.
type Renamer struct {
	policy     Policy
	exceptions map[string]struct{} // pre-rename runtime exceptions, policy style
	users      map[string]struct{} // pre-rename user classes, policy style
	library    ClassLibrary
	arrays     ArrayMapper
}

// New builds a Renamer. Both name sets are normalized to pre-rename form in
// the policy's style; a post-rename name lacking its prefix is an error.
func New(policy Policy, runtimeExceptions, userClasses NameSet, opts ...Option) (*Renamer, error) {
	r := &Renamer{policy: policy, library: StandardLibrary()}

	var err error
	r.exceptions, err = policy.preRenameSet(runtimeExceptions, ShadowPackage)
	if err != nil {
		return nil, err
	}
	userPrefix := UserPackage
	if policy.preserveDebugInfo {
		userPrefix = ""
	}
	r.users, err = policy.preRenameSet(userClasses, userPrefix)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(r)
	}
	if r.arrays == nil {
		r.arrays = NewStandardArrayMapper(ElementMapping{
			ToPostRename: r.slashElementToPostRename,
			ToPreRename:  r.slashElementToPreRename,
		})
	}
	return r, nil
}

func (p Policy) preRenameSet(set NameSet, slashPrefix string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(set.Names))
	for _, n := range set.Names {
		slash := ToSlashName(n)
		if set.Category == PostRename {
			trimmed, ok := strings.CutPrefix(slash, slashPrefix)
			if !ok {
				return nil, invalid("normalize", n, "post-rename name lacks prefix "+slashPrefix)
			}
			slash = trimmed
		}
		out[p.style.fromSlash(slash)] = struct{}{}
	}
	return out, nil
}

// Policy returns the policy the renamer was built from.
func (r *Renamer) Policy() Policy { return r.policy }

// Style returns the naming style of every name the renamer accepts.
func (r *Renamer) Style() NameStyle { return r.policy.style }

func (r *Renamer) checkStyle(op, name string) error {
	if name == "" {
		return invalid(op, name, "empty name")
	}
	if strings.Contains(name, r.policy.style.foreignSeparator()) {
		return invalid(op, name, "contains "+r.policy.style.foreignSeparator()+" in "+r.policy.style.String()+" style")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------

// ClassifyPreRename returns the category of a pre-rename name. The array
// hint decides between the two array categories and is ignored otherwise.
// Classification does not consult the permission flags.
func (r *Renamer) ClassifyPreRename(name string, hint ArrayType) (ClassCategory, error) {
	const op = "classifyPreRename"
	if err := r.checkStyle(op, name); err != nil {
		return 0, err
	}
	return r.classifyPre(op, name, hint)
}

func (r *Renamer) classifyPre(op, name string, hint ArrayType) (ClassCategory, error) {
	p := &r.policy.prefixes
	switch {
	case strings.HasPrefix(name, "["):
		switch hint {
		case PreciseType:
			return PreciseArray, nil
		case UnifyingType:
			return UnifyingArray, nil
		default:
			return 0, invalid(op, name, "array name requires a precise or unifying array type")
		}
	case strings.HasPrefix(name, p.PreRenameAPI):
		return PublicAPIClass, nil
	case r.isException(name):
		return RuntimeLibraryException, nil
	case r.library.Contains(r.policy.style.toSlash(name)):
		return RuntimeLibraryClass, nil
	case r.isUser(name) || strings.HasPrefix(name, p.PreRenameUserlib):
		return UserDefinedClass, nil
	}
	return 0, unrecognized(op, name)
}

// ClassifyPostRename returns the category of a post-rename name. Unifying
// wrappers and the handwritten array supertypes are UnifyingArray; precise
// and primitive wrappers are PreciseArray.
func (r *Renamer) ClassifyPostRename(name string) (ClassCategory, error) {
	const op = "classifyPostRename"
	if err := r.checkStyle(op, name); err != nil {
		return 0, err
	}
	c, _, err := r.classifyPost(op, name)
	return c, err
}

func (r *Renamer) classifyPost(op, name string) (ClassCategory, wrapperKind, error) {
	p := &r.policy.prefixes
	if strings.HasPrefix(name, p.ExceptionWrapper) {
		return ExceptionWrapper, wrapperUnknown, nil
	}
	if rest, ok := strings.CutPrefix(name, p.ArrayWrapper); ok {
		switch kind := classifyWrapper(r.policy.style.toSlash(rest)); kind {
		case wrapperPrimitive, wrapperPrecise:
			return PreciseArray, kind, nil
		case wrapperUnifying, wrapperAmbiguous, wrapperObjectSupertype:
			return UnifyingArray, kind, nil
		default:
			return 0, kind, unrecognized(op, name)
		}
	}
	if strings.HasPrefix(name, p.PostRenameAPI) {
		return PublicAPIClass, wrapperUnknown, nil
	}
	if base, ok := strings.CutPrefix(name, p.Shadow); ok {
		if r.isException(base) {
			return RuntimeLibraryException, wrapperUnknown, nil
		}
		if r.library.Contains(r.policy.style.toSlash(base)) {
			return RuntimeLibraryClass, wrapperUnknown, nil
		}
	}
	if base, ok := strings.CutPrefix(name, p.User); ok && r.isUser(base) {
		return UserDefinedClass, wrapperUnknown, nil
	}
	if strings.HasPrefix(name, p.PostRenameUserlib) {
		return UserDefinedClass, wrapperUnknown, nil
	}
	return 0, wrapperUnknown, unrecognized(op, name)
}

func (r *Renamer) isException(name string) bool {
	_, ok := r.exceptions[name]
	return ok
}

func (r *Renamer) isUser(name string) bool {
	_, ok := r.users[name]
	return ok
}

// ---------------------------------------------------------------------------
// Renaming
// ---------------------------------------------------------------------------

// ToPostRename returns the post-rename form of a pre-rename class name.
// Array names need hint to pick the wrapper strategy; other names ignore it.
// Exception wrapping is a separate operation: see ToExceptionWrapper.
func (r *Renamer) ToPostRename(name string, hint ArrayType) (string, error) {
	const op = "toPostRename"
	if err := r.checkStyle(op, name); err != nil {
		return "", err
	}
	return r.toPostRename(op, name, hint)
}

func (r *Renamer) toPostRename(op, name string, hint ArrayType) (string, error) {
	c, err := r.classifyPre(op, name, hint)
	if err != nil {
		return "", err
	}
	if !r.policy.Permits(c) {
		return "", prohibited(op, name, c)
	}

	p := &r.policy.prefixes
	switch c {
	case PreciseArray, UnifyingArray:
		slash := r.policy.style.toSlash(name)
		var out string
		if c == PreciseArray {
			out, err = r.arrays.PreciseWrapper(slash)
		} else {
			out, err = r.arrays.UnifyingWrapper(slash)
		}
		if err != nil {
			return "", arrayError(op, name, err)
		}
		return r.policy.style.fromSlash(out), nil
	case PublicAPIClass:
		return p.PostRenameAPI + name, nil
	case RuntimeLibraryClass, RuntimeLibraryException:
		return p.Shadow + name, nil
	default:
		return p.User + name, nil
	}
}

// ToPreRename returns the pre-rename form of a post-rename class name.
// Exception wrappers reverse to the wrapped class. The untyped handwritten
// array supertypes fail with ErrAmbiguousName; the object-array supertypes
// reverse to an array of java.lang.Object.
func (r *Renamer) ToPreRename(name string) (string, error) {
	const op = "toPreRename"
	if err := r.checkStyle(op, name); err != nil {
		return "", err
	}
	return r.toPreRename(op, name)
}

func (r *Renamer) toPreRename(op, name string) (string, error) {
	c, kind, err := r.classifyPost(op, name)
	if err != nil {
		return "", err
	}
	if kind == wrapperAmbiguous {
		return "", &RenameError{Op: op, Name: name, Category: c, Err: ErrAmbiguousName,
			Detail: "any primitive array may have been cast to this type"}
	}
	if !r.permitsReverse(c, kind) {
		return "", prohibited(op, name, c)
	}

	p := &r.policy.prefixes
	switch c {
	case ExceptionWrapper:
		return name[len(p.ExceptionWrapper):], nil
	case PreciseArray, UnifyingArray:
		if kind == wrapperObjectSupertype {
			return "[L" + r.policy.style.fromSlash("java/lang/Object"), nil
		}
		out, err := r.arrays.OriginalName(r.policy.style.toSlash(name))
		if err != nil {
			return "", arrayError(op, name, err)
		}
		return r.policy.style.fromSlash(out), nil
	case PublicAPIClass:
		return name[len(p.PostRenameAPI):], nil
	case RuntimeLibraryClass, RuntimeLibraryException:
		return name[len(p.Shadow):], nil
	default:
		return name[len(p.User):], nil
	}
}

// permitsReverse applies the permission flags in the post-rename direction.
// Wrappers that carry no element type to tell the strategies apart accept
// either array permission.
func (r *Renamer) permitsReverse(c ClassCategory, kind wrapperKind) bool {
	switch kind {
	case wrapperPrimitive, wrapperObjectSupertype:
		return r.policy.Permits(PreciseArray) || r.policy.Permits(UnifyingArray)
	}
	return r.policy.Permits(c)
}

// ToExceptionWrapper prepends the exception wrapper prefix. It does not
// check that name is an exception type; that is the caller's contract.
func (r *Renamer) ToExceptionWrapper(name string) (string, error) {
	const op = "toExceptionWrapper"
	if err := r.checkStyle(op, name); err != nil {
		return "", err
	}
	return r.policy.prefixes.ExceptionWrapper + name, nil
}

// ---------------------------------------------------------------------------
// Array element callbacks
// ---------------------------------------------------------------------------

func (r *Renamer) slashElementToPostRename(slashName string) (string, error) {
	out, err := r.toPostRename("toPostRename", r.policy.style.fromSlash(slashName), NoArrayType)
	if err != nil {
		return "", err
	}
	return r.policy.style.toSlash(out), nil
}

func (r *Renamer) slashElementToPreRename(slashName string) (string, error) {
	out, err := r.toPreRename("toPreRename", r.policy.style.fromSlash(slashName))
	if err != nil {
		return "", err
	}
	return r.policy.style.toSlash(out), nil
}

// arrayError keeps element rename failures intact and reports descriptor
// parse failures as malformed names.
func arrayError(op, name string, err error) error {
	var re *RenameError
	if errors.As(err, &re) {
		return err
	}
	return invalid(op, name, err.Error())
}
