package config

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/cdpr-lab/cablekit/pkg/errors"
)

// LoadRobotXML reads an XML robot description and returns a profile
// with the robot section filled in from it. The format follows the
// model-config files common among CDPR analysis toolboxes:
//
//	<robot name="planar_xy" model="planar-xy">
//	  <effector mass="1.0" damping="0.1"/>
//	  <gravity x="0" y="-9.81"/>
//	  <anchors>
//	    <anchor x="-1" y="-1"/>
//	    <anchor x="1" y="-1"/>
//	  </anchors>
//	</robot>
//
// Sim settings keep their defaults; use a TOML/YAML profile to change
// them alongside an XML robot.
func LoadRobotXML(path string) (*Profile, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read robot description %s", path)
	}

	root := doc.SelectElement("robot")
	if root == nil {
		return nil, errors.Newf(errors.ErrConfigParse, "%s has no <robot> element", path)
	}

	modelName := root.SelectAttrValue("model", "")
	if modelName == "" {
		return nil, errors.Newf(errors.ErrConfigValid, "%s: <robot> is missing the model attribute", path)
	}

	profile, err := Default()
	if err != nil {
		return nil, err
	}
	profile.Robot.Name = root.SelectAttrValue("name", "")
	profile.Robot.Model = modelName

	options := map[string]interface{}{}

	if effector := root.SelectElement("effector"); effector != nil {
		for _, attr := range []string{"mass", "damping"} {
			if raw := effector.SelectAttrValue(attr, ""); raw != "" {
				v, err := parseAttr(path, "effector", attr, raw)
				if err != nil {
					return nil, err
				}
				options[attr] = v
			}
		}
	}

	if gravity := root.SelectElement("gravity"); gravity != nil {
		vec, err := parseXY(path, "gravity", gravity)
		if err != nil {
			return nil, err
		}
		options["gravity"] = vec
	}

	if anchors := root.SelectElement("anchors"); anchors != nil {
		points := [][]float64{}
		for _, anchor := range anchors.SelectElements("anchor") {
			p, err := parseXY(path, "anchor", anchor)
			if err != nil {
				return nil, err
			}
			points = append(points, p)
		}
		if len(points) > 0 {
			options["anchors"] = points
		}
	}

	if len(options) > 0 {
		profile.Robot.Options = options
	}

	return profile, nil
}

func parseXY(path, element string, e *etree.Element) ([]float64, error) {
	x, err := parseAttr(path, element, "x", e.SelectAttrValue("x", "0"))
	if err != nil {
		return nil, err
	}
	y, err := parseAttr(path, element, "y", e.SelectAttrValue("y", "0"))
	if err != nil {
		return nil, err
	}
	return []float64{x, y}, nil
}

func parseAttr(path, element, attr, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrConfigParse, "%s: <%s> attribute %s=%q is not a number", path, element, attr, raw)
	}
	return v, nil
}
