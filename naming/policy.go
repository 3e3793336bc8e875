package naming

// ---------------------------------------------------------------------------
// Package constants
// ---------------------------------------------------------------------------

// Slash-style package prefixes. Dot-style prefixes are derived from these.
const (
	ShadowPackage           = "org/shadowvm/shadow/"
	ShadowAPIPackage        = "org/shadowvm/shadowapi/"
	PublicAPIPackage        = "org/shadowvm/api/"
	ExceptionWrapperPackage = "org/shadowvm/exceptionwrapper/"
	UserPackage             = "org/shadowvm/user/"
	UserlibPackage          = "org/shadowvm/userlib/"
	ArrayWrapperPackage     = "org/shadowvm/arraywrapper/"
)

// Prefixes holds every prefix a Renamer applies or strips, already in the
// policy's style.
type Prefixes struct {
	Shadow            string
	PreRenameAPI      string
	PostRenameAPI     string
	ExceptionWrapper  string
	User              string
	PreRenameUserlib  string
	PostRenameUserlib string
	ArrayWrapper      string
}

func derivePrefixes(style NameStyle, preserveDebugInfo bool) Prefixes {
	user := UserPackage
	if preserveDebugInfo {
		// Debug mode keeps user class names verbatim so stack traces stay
		// readable.
		user = ""
	}
	return Prefixes{
		Shadow:            style.fromSlash(ShadowPackage),
		PreRenameAPI:      style.fromSlash(PublicAPIPackage),
		PostRenameAPI:     style.fromSlash(ShadowAPIPackage),
		ExceptionWrapper:  style.fromSlash(ExceptionWrapperPackage),
		User:              style.fromSlash(user),
		PreRenameUserlib:  style.fromSlash(UserlibPackage),
		PostRenameUserlib: style.fromSlash(user + UserlibPackage),
		ArrayWrapper:      style.fromSlash(ArrayWrapperPackage),
	}
}

// ---------------------------------------------------------------------------
// Policy: immutable naming configuration
// ---------------------------------------------------------------------------

// Policy is the naming configuration of one sandbox instance. The zero value
// is not usable; construct with NewPolicy.
type Policy struct {
	style             NameStyle
	preserveDebugInfo bool
	permitted         [numCategories]bool
	prefixes          Prefixes
}

// NewPolicy derives a policy from the style and debug flag. Every category is
// permitted except the ones listed in prohibited.
func NewPolicy(style NameStyle, preserveDebugInfo bool, prohibited ...ClassCategory) Policy {
	p := Policy{
		style:             style,
		preserveDebugInfo: preserveDebugInfo,
		prefixes:          derivePrefixes(style, preserveDebugInfo),
	}
	for i := range p.permitted {
		p.permitted[i] = true
	}
	for _, c := range prohibited {
		if c.Valid() {
			p.permitted[c] = false
		}
	}
	return p
}

// Style returns the naming style.
func (p Policy) Style() NameStyle { return p.style }

// PreserveDebugInfo reports whether user classes keep their original names.
func (p Policy) PreserveDebugInfo() bool { return p.preserveDebugInfo }

// Permits reports whether names of category c may be renamed.
func (p Policy) Permits(c ClassCategory) bool {
	return c.Valid() && p.permitted[c]
}

// Prohibited returns the prohibited categories in declaration order.
func (p Policy) Prohibited() []ClassCategory {
	var out []ClassCategory
	for i, ok := range p.permitted {
		if !ok {
			out = append(out, ClassCategory(i))
		}
	}
	return out
}

// Prefixes returns the prefix table for the policy's style.
func (p Policy) Prefixes() Prefixes { return p.prefixes }

// Prefix returns the post-rename prefix for a category. Array categories
// share the array wrapper package.
func (p Policy) Prefix(c ClassCategory) string {
	switch c {
	case RuntimeLibraryClass, RuntimeLibraryException:
		return p.prefixes.Shadow
	case PublicAPIClass:
		return p.prefixes.PostRenameAPI
	case ExceptionWrapper:
		return p.prefixes.ExceptionWrapper
	case PreciseArray, UnifyingArray:
		return p.prefixes.ArrayWrapper
	case UserDefinedClass:
		return p.prefixes.User
	default:
		return ""
	}
}
