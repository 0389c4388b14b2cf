package types

// MethodOf finds a method by name on t or its ancestors. The returned TypeID
// is the type that declares the method.
func (e *Env) MethodOf(t TypeID, name string) (*Method, TypeID, bool) {
	for id := t; id != NoTypeID; {
		ty := e.Get(id)
		if ty == nil {
			return nil, NoTypeID, false
		}
		for i := range ty.Methods {
			if ty.Methods[i].Name == name {
				return &ty.Methods[i], id, true
			}
		}
		id = ty.Parent
	}
	return nil, NoTypeID, false
}

// AttributeOf finds an attribute by name on t or its ancestors. The returned
// TypeID is the type that declares the attribute.
func (e *Env) AttributeOf(t TypeID, name string) (*Attribute, TypeID, bool) {
	for id := t; id != NoTypeID; {
		ty := e.Get(id)
		if ty == nil {
			return nil, NoTypeID, false
		}
		for i := range ty.Attributes {
			if ty.Attributes[i].Name == name {
				return &ty.Attributes[i], id, true
			}
		}
		id = ty.Parent
	}
	return nil, NoTypeID, false
}

// OwnMethod finds a method declared directly on t, ancestors excluded.
func (e *Env) OwnMethod(t TypeID, name string) (*Method, bool) {
	ty := e.Get(t)
	if ty == nil {
		return nil, false
	}
	for i := range ty.Methods {
		if ty.Methods[i].Name == name {
			return &ty.Methods[i], true
		}
	}
	return nil, false
}

// CtorOf returns the constructor parameters of t. Types without declared
// parameters inherit the parent's constructor shape.
func (e *Env) CtorOf(t TypeID) []Param {
	ty := e.Get(t)
	if ty == nil {
		return nil
	}
	return ty.Ctor
}

// AllAttributes returns the attributes of t with inherited ones first, in
// declaration order. This is the object layout order.
func (e *Env) AllAttributes(t TypeID) []Attribute {
	var chain []TypeID
	for id := t; id != NoTypeID; {
		ty := e.Get(id)
		if ty == nil {
			break
		}
		chain = append(chain, id)
		id = ty.Parent
	}
	var out []Attribute
	for i := len(chain) - 1; i >= 0; i-- {
		ty := e.Get(chain[i])
		if ty != nil {
			out = append(out, ty.Attributes...)
		}
	}
	return out
}
