package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		jsonData := `{
			"id": "pbc_3142635823",
			"name": "events",
			"type": "base",
			"system": false,
			"listRule": "",
			"viewRule": "",
			"createRule": null,
			"updateRule": null,
			"deleteRule": "@request.auth.id = host_id",
			"fields": [
				{
					"id": "text3208210256",
					"name": "id",
					"type": "text",
					"system": true,
					"required": true,
					"primaryKey": true,
					"hidden": false,
					"presentable": false,
					"autogeneratePattern": "[a-z0-9]{15}",
					"pattern": "^[a-z0-9]+$",
					"min": 15,
					"max": 15
				},
				{
					"id": "text724990059",
					"name": "title",
					"type": "text",
					"system": false,
					"required": true,
					"hidden": false,
					"presentable": true,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "text1843675174",
					"name": "description",
					"type": "text",
					"system": false,
					"required": true,
					"hidden": false,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "date2862495610",
					"name": "date_time",
					"type": "date",
					"system": false,
					"required": true,
					"hidden": false,
					"presentable": false,
					"min": "",
					"max": ""
				},
				{
					"id": "text1587448267",
					"name": "location",
					"type": "text",
					"system": false,
					"required": true,
					"hidden": false,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "number2683508278",
					"name": "capacity",
					"type": "number",
					"system": false,
					"required": true,
					"hidden": false,
					"presentable": false,
					"onlyInt": true,
					"min": 1,
					"max": null
				},
				{
					"id": "select2063623452",
					"name": "visibility",
					"type": "select",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"maxSelect": 1,
					"values": ["public", "private", "community"]
				},
				{
					"id": "text3475444733",
					"name": "host_id",
					"type": "text",
					"system": false,
					"required": true,
					"hidden": false,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "text3479234172",
					"name": "host_name",
					"type": "text",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "text1068505772",
					"name": "community_id",
					"type": "text",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "bool1547992806",
					"name": "is_paid",
					"type": "bool",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false
				},
				{
					"id": "number3402113753",
					"name": "price",
					"type": "number",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"onlyInt": false,
					"min": 0,
					"max": null
				},
				{
					"id": "text3309110367",
					"name": "image",
					"type": "text",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "text2324736937",
					"name": "invite_code",
					"type": "text",
					"system": false,
					"required": false,
					"hidden": true,
					"presentable": false,
					"min": 0,
					"max": 0,
					"pattern": ""
				},
				{
					"id": "json2918445923",
					"name": "attendees_by_status",
					"type": "json",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"maxSize": 2000000
				},
				{
					"id": "json1326724116",
					"name": "attendees",
					"type": "json",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"maxSize": 2000000
				},
				{
					"id": "json2602490748",
					"name": "waitlist",
					"type": "json",
					"system": false,
					"required": false,
					"hidden": false,
					"presentable": false,
					"maxSize": 2000000
				},
				{
					"id": "autodate2990389176",
					"name": "created",
					"type": "autodate",
					"system": false,
					"hidden": false,
					"presentable": false,
					"onCreate": true,
					"onUpdate": false
				},
				{
					"id": "autodate3332085495",
					"name": "updated",
					"type": "autodate",
					"system": false,
					"hidden": false,
					"presentable": false,
					"onCreate": true,
					"onUpdate": true
				}
			],
			"indexes": [
				"CREATE INDEX idx_events_date_time ON events (date_time)",
				"CREATE INDEX idx_events_community_id ON events (community_id)"
			]
		}`

		collection := &core.Collection{}
		if err := json.Unmarshal([]byte(jsonData), collection); err != nil {
			return err
		}

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("pbc_3142635823")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
