/*
Package config manages configuration parsing and validation for pictriage.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |                       |           |
	+-----+-----+           +----+----+  +---+----+
	|   YAML    |           |   HCL   |  |  JSON  |
	| Parser    |           | Parser  |  | Parser |
	+-----------+           +---------+  +--------+

🎯 Purpose:
- Loads the library location and relocation settings
- Picks a parser from the file extension
- Fills in defaults and resolves paths

🔄 Flow:
1. Reads configuration from file
2. Parses format-specific syntax (unknown fields are errors)
3. Validates values and applies defaults
4. Hands the result to the CLI, which wires storage, the tag store and the pipeline

⚙️ Defaults:
- trash_dir: Trash
- database: <library>/.pictriage.db
- workers: 4
- include: common image extensions
- fallback_extension: .jpg
- watch.patterns: Screenshot*
- watch.debounce: 250ms

🔍 Example:

	# pictriage.hcl
	library = "${home}/Pictures/Sorted"
	workers = 8

	watch {
	  dir = "${home}/Desktop"
	}

	cfg, err := config.Load(ctx, "pictriage.hcl")
	if err != nil {
		return err
	}
	fmt.Println(cfg.TrashPath())
*/
package config
