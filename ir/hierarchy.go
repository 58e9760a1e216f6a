package ir

// Hierarchy owns every class of the program under analysis and answers the
// direct subtyping queries the call-graph builders walk. It is effectively
// immutable once the program has been constructed.
type Hierarchy struct {
	classes map[string]*Class
	order   []*Class

	directSubclasses    map[*Class][]*Class
	directSubinterfaces map[*Class][]*Class
	directImplementors  map[*Class][]*Class
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		classes:             make(map[string]*Class),
		directSubclasses:    make(map[*Class][]*Class),
		directSubinterfaces: make(map[*Class][]*Class),
		directImplementors:  make(map[*Class][]*Class),
	}
}

func (h *Hierarchy) addClass(c *Class) *Class {
	if _, found := h.classes[c.name]; found {
		panicf("class %s declared twice", c.name)
	}

	h.classes[c.name] = c
	h.order = append(h.order, c)

	if c.super != nil {
		h.directSubclasses[c.super] = append(h.directSubclasses[c.super], c)
	}
	for _, itf := range c.interfaces {
		if c.isInterface {
			h.directSubinterfaces[itf] = append(h.directSubinterfaces[itf], c)
		} else {
			h.directImplementors[itf] = append(h.directImplementors[itf], c)
		}
	}
	return c
}

// NewClass declares a concrete class. super may be nil for the hierarchy
// root; interfaces lists the directly implemented interfaces.
func (h *Hierarchy) NewClass(name string, super *Class, interfaces ...*Class) *Class {
	return h.addClass(newClass(h, name, super, interfaces, false, false))
}

// NewAbstractClass declares an abstract class.
func (h *Hierarchy) NewAbstractClass(name string, super *Class, interfaces ...*Class) *Class {
	return h.addClass(newClass(h, name, super, interfaces, true, false))
}

// NewInterface declares an interface extending the given super-interfaces.
func (h *Hierarchy) NewInterface(name string, supers ...*Class) *Class {
	return h.addClass(newClass(h, name, nil, supers, true, true))
}

func (h *Hierarchy) Class(name string) *Class { return h.classes[name] }

// Classes returns all declared classes in declaration order.
func (h *Hierarchy) Classes() []*Class { return h.order }

func (h *Hierarchy) DirectSubclassesOf(c *Class) []*Class { return h.directSubclasses[c] }

func (h *Hierarchy) DirectSubinterfacesOf(c *Class) []*Class { return h.directSubinterfaces[c] }

func (h *Hierarchy) DirectImplementorsOf(c *Class) []*Class { return h.directImplementors[c] }

// World bundles the ambient inputs of a whole-program analysis: the class
// hierarchy and the entry method. Solvers receive it as a handle instead of
// reaching for process-wide state.
type World struct {
	Hierarchy  *Hierarchy
	MainMethod *Method
}
