// Package lua runs user scripts in a sandboxed gopher-lua state.
//
// The state opens only the base, table, string and math libraries and
// removes the loaders that read code from disk or strings at run time.
// Every call runs under a timeout.
//
// # New element hook
//
// ElementHook loads a script that defines a global on_new_element function.
// The editor calls it for every element it inserts, such as pasted copies:
//
//	function on_new_element(el)
//	  -- el.id, el.type and el.tag describe the element
//	  if el.type == "image" and el.get_attr("alt") == nil then
//	    el.set_attr("alt", "")
//	  end
//	  el.add_class("fresh")
//	  el.set_style("z-index", "10")
//	end
//
// A Lua error raised by the function is returned from OnNewElement.
package lua
