package instancing

import "fmt"

// swapAttributes exchanges the items of slots a and b in every attribute. All
// buffers are range-checked before any is touched.
func swapAttributes(host AttributeHost, specs []AttributeSpec, a, b int) {
	if a == b {
		return
	}
	if a < 0 || b < 0 {
		panic(fmt.Sprintf("instancing: negative swap slot (%d, %d)", a, b))
	}
	hi := max(a, b)
	for _, s := range specs {
		size := host.ItemSize(s.ID)
		if size < 1 || (hi+1)*size > len(host.Buffer(s.ID)) {
			panic(fmt.Sprintf("instancing: swap slot %d out of range for attribute %q", hi, s.ID))
		}
	}
	for _, s := range specs {
		swapItem(host.Buffer(s.ID), host.ItemSize(s.ID), a, b)
	}
}

func swapItem(buf []float32, size, a, b int) {
	x := buf[a*size : a*size+size]
	y := buf[b*size : b*size+size]
	for i := range x {
		x[i], y[i] = y[i], x[i]
	}
}
